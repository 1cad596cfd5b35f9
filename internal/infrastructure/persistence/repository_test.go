package persistence

import (
	"testing"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductAndVariationRepositories(t *testing.T) {
	ctx := t.Context()
	repos := NewRepositories(newTestDatabase(t).DB)

	price := valueobject.MustNewPrice("19.99", "USD")
	v, err := catalog.NewVariation("color", "MH01-S-RED", "Hoodie S Red", price)
	require.NoError(t, err)
	v.Fields.Set(catalog.AttributeFieldName("color"), catalog.ReferenceItem(4, "Red"))
	require.NoError(t, repos.Variations.Save(ctx, v))
	require.NotZero(t, v.ID)

	p, err := catalog.NewProduct("9", "MH01", "Hoodie")
	require.NoError(t, err)
	p.AddVariation(v.ID)
	p.AddStore(1)
	p.Fields.Set(catalog.FieldCategoryIDs, catalog.ReferenceItem(12, ""))
	require.NoError(t, repos.Products.Save(ctx, p))

	t.Run("product round trip keeps JSON columns", func(t *testing.T) {
		got, err := repos.Products.FindBySKU(ctx, "MH01")
		require.NoError(t, err)
		assert.Equal(t, []uint{v.ID}, got.VariationIDs)
		assert.Equal(t, []uint{1}, got.StoreIDs)
		item, ok := got.Fields.First(catalog.FieldCategoryIDs)
		require.True(t, ok)
		assert.Equal(t, uint(12), item.TargetID)
	})

	t.Run("variation price and fields survive", func(t *testing.T) {
		got, err := repos.Variations.FindBySKU(ctx, "MH01-S-RED")
		require.NoError(t, err)
		assert.True(t, got.Price.Amount().Equal(decimal.RequireFromString("19.99")))
		assert.Equal(t, valueobject.CurrencyCode("USD"), got.Price.Currency())
		item, _ := got.Fields.First("attribute_color")
		assert.Equal(t, uint(4), item.TargetID)
	})

	t.Run("duplicate variation SKU is a conflict", func(t *testing.T) {
		dup, err := catalog.NewVariation("default", "MH01-S-RED", "again", price)
		require.NoError(t, err)
		err = repos.Variations.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update keeps identity", func(t *testing.T) {
		p.Title = "Hoodie v2"
		require.NoError(t, repos.Products.Save(ctx, p))
		count, err := repos.Products.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("missing rows map to ErrNotFound", func(t *testing.T) {
		_, err := repos.Products.FindBySKU(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repos.Variations.FindByIDs(ctx, []uint{v.ID, 999})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}

func TestKeyedRepositoriesUpsert(t *testing.T) {
	ctx := t.Context()
	repos := NewRepositories(newTestDatabase(t).DB)

	pt, err := catalog.NewProductType("9", "Top", "")
	require.NoError(t, err)
	require.NoError(t, repos.ProductTypes.Save(ctx, pt))
	pt.Label = "Tops"
	require.NoError(t, repos.ProductTypes.Save(ctx, pt))

	all, err := repos.ProductTypes.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Tops", all[0].Label)
	assert.Equal(t, "default", all[0].VariationTypeID)

	attr, err := catalog.NewAttribute("color", "")
	require.NoError(t, err)
	require.NoError(t, repos.Attributes.Save(ctx, attr))

	red, err := catalog.NewAttributeValue("color", "49", "Red")
	require.NoError(t, err)
	require.NoError(t, repos.Attributes.SaveValue(ctx, red))

	got, err := repos.Attributes.FindValue(ctx, "color", "49")
	require.NoError(t, err)
	assert.Equal(t, "Red", got.Name)

	bySource, err := repos.Attributes.FindValuesBySource(ctx, "49")
	require.NoError(t, err)
	assert.Len(t, bySource, 1)

	again, err := catalog.NewAttributeValue("color", "49", "Red")
	require.NoError(t, err)
	assert.ErrorIs(t, repos.Attributes.SaveValue(ctx, again), shared.ErrAlreadyExists)
}

func TestTermRepository_ParentScopedNames(t *testing.T) {
	ctx := t.Context()
	repos := NewRepositories(newTestDatabase(t).DB)

	require.NoError(t, repos.Vocabularies.Save(ctx, &catalog.Vocabulary{ID: "magento_categories", Name: "Magento categories"}))

	men, err := catalog.NewTerm("magento_categories", "Men", nil)
	require.NoError(t, err)
	require.NoError(t, repos.Terms.Save(ctx, men))

	tops, err := catalog.NewTerm("magento_categories", "Tops", []uint{men.ID})
	require.NoError(t, err)
	require.NoError(t, repos.Terms.Save(ctx, tops))

	rootTops, err := catalog.NewTerm("magento_categories", "Tops", nil)
	require.NoError(t, err)
	require.NoError(t, repos.Terms.Save(ctx, rootTops))
	assert.NotEqual(t, tops.ID, rootTops.ID)

	found, err := repos.Terms.FindByNameAndParents(ctx, "magento_categories", "Tops", []uint{men.ID})
	require.NoError(t, err)
	assert.Equal(t, tops.ID, found.ID)

	_, err = repos.Terms.FindByNameAndParents(ctx, "magento_categories", "Men", []uint{tops.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	count, err := repos.Terms.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestFieldFileAliasRepositories(t *testing.T) {
	ctx := t.Context()
	repos := NewRepositories(newTestDatabase(t).DB)

	spec := catalog.FieldSpec{
		EntityKind:    catalog.KindProduct,
		Bundle:        "9",
		FieldName:     "material",
		FieldKind:     catalog.FieldKindListString,
		AllowedValues: []string{"cotton", "wool"},
	}
	require.NoError(t, repos.Fields.SaveStorage(ctx, spec.Storage()))
	require.NoError(t, repos.Fields.SaveConfig(ctx, spec.Config()))

	storage, err := repos.Fields.FindStorage(ctx, catalog.KindProduct, "material")
	require.NoError(t, err)
	assert.Equal(t, "wool", storage.AllowedValues["wool"])

	assert.ErrorIs(t, repos.Fields.SaveStorage(ctx, spec.Storage()), shared.ErrAlreadyExists)

	configs, err := repos.Fields.ListConfigs(ctx, catalog.KindProduct, "9")
	require.NoError(t, err)
	assert.Len(t, configs, 1)

	file := &catalog.File{URI: "public://products/m/h/mh01.jpg", Filename: "mh01.jpg", Permanent: true}
	require.NoError(t, repos.Files.Save(ctx, file))
	byURI, err := repos.Files.FindByURI(ctx, file.URI)
	require.NoError(t, err)
	assert.Equal(t, file.ID, byURI.ID)

	alias := &catalog.PathAlias{Path: catalog.ProductPath(3), Alias: "/hoodie.html", Langcode: catalog.DefaultLangcode}
	require.NoError(t, repos.PathAliases.Save(ctx, alias))
	gotAlias, err := repos.PathAliases.FindByPath(ctx, "/product/3", "en")
	require.NoError(t, err)
	assert.Equal(t, "/hoodie.html", gotAlias.Alias)
}

func TestStoreAndStockRepositories(t *testing.T) {
	ctx := t.Context()
	repos := NewRepositories(newTestDatabase(t).DB)

	_, err := repos.Stores.FindDefault(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	store := &catalog.Store{Type: "online", Name: "Main", DefaultCurrency: "USD", IsDefault: true,
		BillingCountries: []string{"US"}, Address: catalog.Address{CountryCode: "US"}}
	require.NoError(t, repos.Stores.Save(ctx, store))

	def, err := repos.Stores.FindDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.ID, def.ID)
	assert.Equal(t, []string{"US"}, def.BillingCountries)

	tx := &catalog.StockTransaction{
		ID:          uuid.New(),
		VariationID: 7,
		LocationID:  1,
		Zone:        catalog.DefaultStockZone,
		Quantity:    decimal.NewFromInt(5),
		UnitCost:    valueobject.MustNewPrice("12.50", "USD"),
		Type:        catalog.StockTransactionReceipt,
	}
	require.NoError(t, repos.StockTransactions.Save(ctx, tx))

	ledger, err := repos.StockTransactions.FindByVariation(ctx, 7)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, ledger[0].UnitCost.Amount().Equal(decimal.RequireFromString("12.5")))
}
