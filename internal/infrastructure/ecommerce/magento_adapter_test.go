package ecommerce

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestMagentoConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *MagentoConfig
		wantErr error
	}{
		{
			name:   "valid config gets defaults",
			config: &MagentoConfig{BaseURL: "https://shop.test/rest/V1/", AccessToken: "tok"},
		},
		{
			name:    "missing url",
			config:  &MagentoConfig{BaseURL: "/rest/V1", AccessToken: "tok"},
			wantErr: ErrMagentoConfigMissingURL,
		},
		{
			name:    "missing token",
			config:  &MagentoConfig{BaseURL: "https://shop.test/rest/V1"},
			wantErr: ErrMagentoConfigMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://shop.test/rest/V1", tt.config.BaseURL)
			assert.Equal(t, 100, tt.config.PageSize)
			assert.Positive(t, tt.config.Timeout)
		})
	}
}

// ---------------------------------------------------------------------------
// Query encoding
// ---------------------------------------------------------------------------

func TestSearchCriteriaQuery(t *testing.T) {
	color := integration.NewSearchCriteria("color", "49", "")
	size := integration.NewSearchCriteria("size", "167", integration.ConditionIn)

	t.Run("and spreads filters over groups", func(t *testing.T) {
		q := searchCriteriaQuery([]integration.SearchCriteria{color, size}, integration.LogicalAnd, nil, 0, 0)
		assert.Equal(t, "color", q.Get("searchCriteria[filter_groups][0][filters][0][field]"))
		assert.Equal(t, "eq", q.Get("searchCriteria[filter_groups][0][filters][0][condition_type]"))
		assert.Equal(t, "size", q.Get("searchCriteria[filter_groups][1][filters][0][field]"))
		assert.Equal(t, "in", q.Get("searchCriteria[filter_groups][1][filters][0][condition_type]"))
		assert.Empty(t, q.Get("searchCriteria[pageSize]"))
	})

	t.Run("or packs filters into group zero", func(t *testing.T) {
		q := searchCriteriaQuery([]integration.SearchCriteria{color, size}, integration.LogicalOr, nil, 10, 2)
		assert.Equal(t, "color", q.Get("searchCriteria[filter_groups][0][filters][0][field]"))
		assert.Equal(t, "size", q.Get("searchCriteria[filter_groups][0][filters][1][field]"))
		assert.Equal(t, "10", q.Get("searchCriteria[pageSize]"))
		assert.Equal(t, "2", q.Get("searchCriteria[currentPage]"))
	})

	t.Run("sort direction defaults to ASC", func(t *testing.T) {
		q := searchCriteriaQuery(nil, integration.LogicalNone,
			[]integration.SortCriteria{{Field: "entity_id"}}, 1, 0)
		assert.Equal(t, "entity_id", q.Get("searchCriteria[sortOrders][0][field]"))
		assert.Equal(t, "ASC", q.Get("searchCriteria[sortOrders][0][direction]"))
	})
}

// ---------------------------------------------------------------------------
// Adapter Tests
// ---------------------------------------------------------------------------

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *MagentoAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewMagentoAdapter(&MagentoConfig{
		BaseURL:     server.URL + "/rest/V1",
		AccessToken: "test-token",
		PageSize:    50,
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func TestMagentoAdapter_GetProduct(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/rest/V1/products/MH01":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": 67, "sku": "MH01", "name": "Chaz Kangeroo Hoodie", "type_id": "configurable",
				"attribute_set_id": 9, "price": 52,
				"extension_attributes": {
					"configurable_product_options": [{"id": 3, "attribute_id": "93", "label": "Color", "position": 1}],
					"configurable_product_links": [51, 52]
				},
				"custom_attributes": [
					{"attribute_code": "category_ids", "value": ["15", "36"]},
					{"attribute_code": "url_path", "value": "chaz-kangeroo-hoodie"}
				]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"The product that was requested doesn't exist."}`))
		}
	})

	product, err := adapter.GetProduct(context.Background(), "MH01")
	require.NoError(t, err)
	assert.Equal(t, 67, product.ID)
	assert.Equal(t, 9, product.AttributeSetID)
	assert.Equal(t, []int{51, 52}, product.ConfigurableLinks())
	require.Len(t, product.ConfigurableOptions(), 1)
	assert.Equal(t, "93", product.ConfigurableOptions()[0].AttributeID.String())

	categories, ok := product.CustomAttribute(integration.AttributeCodeCategoryIDs)
	require.True(t, ok)
	assert.Equal(t, []string{"15", "36"}, categories.List())

	_, err = adapter.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, integration.ErrSourceNotFound)
	assert.True(t, integration.IsAbsent(err))
}

func TestMagentoAdapter_GetProductsEncodesCriteria(t *testing.T) {
	var seen url.Values
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/V1/products", r.URL.Path)
		seen = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[{"id":51,"sku":"MH01-XS-Black","type_id":"simple"}],"total_count":1}`))
	})

	products, err := adapter.GetProducts(context.Background(), integration.ProductQuery{
		Filters: []integration.SearchCriteria{integration.EntityIDEquals(51)},
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "MH01-XS-Black", products[0].SKU)

	assert.Equal(t, "entity_id", seen.Get("searchCriteria[filter_groups][0][filters][0][field]"))
	assert.Equal(t, "51", seen.Get("searchCriteria[filter_groups][0][filters][0][value]"))
	assert.Equal(t, "50", seen.Get("searchCriteria[pageSize]"))
}

func TestMagentoAdapter_CountAndFirstProduct(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("fields") == "items[id]" {
			assert.Equal(t, "entity_id", q.Get("searchCriteria[sortOrders][0][field]"))
			_, _ = w.Write([]byte(`{"items":[{"id":1}]}`))
			return
		}
		assert.Equal(t, "1", q.Get("searchCriteria[pageSize]"))
		_, _ = w.Write([]byte(`{"items":[],"total_count":2046}`))
	})

	count, err := adapter.GetProductsCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2046, count)

	first, err := adapter.GetFirstProductID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)
}

func TestMagentoAdapter_AttributesAndCategories(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/V1/products/attributes/93":
			_, _ = w.Write([]byte(`{"attribute_id":93,"attribute_code":"color","frontend_input":"select",
				"options":[{"label":" ","value":""},{"label":"Black","value":"49"}]}`))
		case "/rest/V1/products/attribute-sets/sets/list":
			assert.Equal(t, "gt", r.URL.Query().Get("searchCriteria[filter_groups][0][filters][0][condition_type]"))
			_, _ = w.Write([]byte(`{"items":[{"attribute_set_id":9,"attribute_set_name":"Top"}]}`))
		case "/rest/V1/products/attribute-sets/9/attributes":
			_, _ = w.Write([]byte(`[{"attribute_id":93,"attribute_code":"color"}]`))
		case "/rest/V1/categories":
			_, _ = w.Write([]byte(`{"id":1,"name":"Root","children_data":[{"id":2,"name":"Default Category","children_data":[]}]}`))
		case "/rest/V1/categories/2":
			_, _ = w.Write([]byte(`{"id":2,"parent_id":1,"name":"Default Category"}`))
		case "/rest/V1/directory/currency":
			_, _ = w.Write([]byte(`{"base_currency_code":"EUR"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	attr, err := adapter.GetProductAttribute(ctx, "93")
	require.NoError(t, err)
	require.Len(t, attr.Options, 2)
	assert.False(t, attr.Options[0].IsSelectable())
	assert.Equal(t, "49", attr.Options[1].Value.String())

	sets, err := adapter.GetProductAttributeSets(ctx, integration.AllAttributeSets())
	require.NoError(t, err)
	assert.Equal(t, "Top", sets[0].AttributeSetName)

	setAttrs, err := adapter.GetProductAttributeSetAttributes(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "color", setAttrs[0].AttributeCode)

	root, err := adapter.GetCategoriesHierarchy(ctx)
	require.NoError(t, err)
	require.Len(t, root.ChildrenData, 1)

	category, err := adapter.GetCategory(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, category.ParentID)

	currency, err := adapter.GetCurrencyCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", currency)

	_, err = adapter.GetCategoryAttribute(ctx, "image")
	assert.ErrorIs(t, err, integration.ErrSourceUnavailable)
	assert.Equal(t, integration.ErrorClassTransport, integration.Classify(err))
}

func TestMagentoAdapter_InvalidJSON(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := adapter.GetProduct(context.Background(), "MH01")
	assert.ErrorIs(t, err, integration.ErrSourceInvalidResponse)
}

func TestMagentoAdapter_FetchMedia(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		if r.URL.Path == "/media/catalog/product/m/h/mh01-black_main.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	base := adapter.config.BaseURL[:len(adapter.config.BaseURL)-len("/rest/V1")]

	obj, err := adapter.FetchMedia(context.Background(), base+"/media/catalog/product/m/h/mh01-black_main.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Len(t, obj.Body, 3)

	_, err = adapter.FetchMedia(context.Background(), base+"/media/catalog/product/x.jpg")
	assert.ErrorIs(t, err, integration.ErrSourceNotFound)
}

func TestMagentoAdapter_FetchMedia_BodyLimit(t *testing.T) {
	var hits atomic.Int32
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(bytes.Repeat([]byte{0xFF}, 64))
	})
	adapter.config.RetryCount = 2
	adapter.media = newMediaClient(adapter.config, 16, zap.NewNop())
	base := adapter.config.BaseURL[:len(adapter.config.BaseURL)-len("/rest/V1")]

	obj, err := adapter.FetchMedia(context.Background(), base+"/media/catalog/product/big.jpg")
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, integration.ErrSourceInvalidResponse)
	assert.Equal(t, int32(1), hits.Load())
}
