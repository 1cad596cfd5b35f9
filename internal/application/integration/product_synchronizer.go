package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// variationAttributeCodes are attached to the variation type of every new
// configurable child
var variationAttributeCodes = []string{"color", "size"}

// SyncConfig tunes a ProductSynchronizer
type SyncConfig struct {
	// LocationID is the stock location receipts are booked to
	LocationID uint
	// BroadenAttributeSets adds every remote attribute set as a candidate archetype
	BroadenAttributeSets bool
	// SanitizeDescription runs descriptions through an HTML policy
	SanitizeDescription bool
	// Timeout bounds one synchronization; zero means no bound
	Timeout time.Duration
}

// Components are the collaborators a ProductSynchronizer drives
type Components struct {
	Schema     *SchemaProvisioner
	Attributes *AttributeMapper
	Assets     *AssetResolver
	Taxonomy   *TaxonomyImporter
	AddOns     *AddOnTypeMapper
	Stores     *StoreProvisioner
}

// ProductSynchronizer turns one remote product record into a local product
// with its variations.
//
// A pass moves through Start, TypeResolved, VariationsMaterialized,
// ParentPopulated and ends Persisted or Aborted. Entities committed before
// an abort stay; a later pass reconciles them by natural key.
type ProductSynchronizer struct {
	source     integration.CatalogSource
	repos      catalog.Repositories
	schema     *SchemaProvisioner
	attributes *AttributeMapper
	assets     *AssetResolver
	taxonomy   *TaxonomyImporter
	addOns     *AddOnTypeMapper
	stores     *StoreProvisioner
	stock      catalog.StockService
	locker     SKULocker
	recorder   SyncRecorder
	sanitizer  *bluemonday.Policy
	config     SyncConfig
	logger     *zap.Logger
}

// NewProductSynchronizer creates a new ProductSynchronizer
func NewProductSynchronizer(
	source integration.CatalogSource,
	repos catalog.Repositories,
	components Components,
	stock catalog.StockService,
	cfg SyncConfig,
	logger *zap.Logger,
) *ProductSynchronizer {
	s := &ProductSynchronizer{
		source:     source,
		repos:      repos,
		schema:     components.Schema,
		attributes: components.Attributes,
		assets:     components.Assets,
		taxonomy:   components.Taxonomy,
		addOns:     components.AddOns,
		stores:     components.Stores,
		stock:      stock,
		locker:     nopLocker{},
		recorder:   nopRecorder{},
		config:     cfg,
		logger:     logger.Named("synchronizer"),
	}
	if cfg.SanitizeDescription {
		s.sanitizer = bluemonday.UGCPolicy()
	}
	return s
}

// WithSKULocker serializes passes over the same SKU
func (s *ProductSynchronizer) WithSKULocker(locker SKULocker) *ProductSynchronizer {
	if locker != nil {
		s.locker = locker
	}
	return s
}

// WithSyncRecorder reports every pass to recorder
func (s *ProductSynchronizer) WithSyncRecorder(recorder SyncRecorder) *ProductSynchronizer {
	if recorder != nil {
		s.recorder = recorder
	}
	return s
}

// SynchronizeProduct fetches the product by SKU and synchronizes it.
// It returns the local product id, or 0 with the reason nothing was created.
func (s *ProductSynchronizer) SynchronizeProduct(ctx context.Context, sku, currency string) (uint, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return 0, integration.ErrInvalidSKU
	}
	code, err := parseCurrency(currency)
	if err != nil {
		return 0, err
	}
	return s.guarded(ctx, sku, func(ctx context.Context) (uint, int, error) {
		product, err := s.source.GetProduct(ctx, sku)
		if err != nil {
			return 0, 0, err
		}
		return s.run(ctx, product, code)
	})
}

// Synchronize synchronizes an already fetched product record
func (s *ProductSynchronizer) Synchronize(ctx context.Context, product *integration.SourceProduct, currency string) (uint, error) {
	if product == nil {
		return 0, integration.ErrInvalidSKU
	}
	if err := product.Validate(); err != nil {
		return 0, err
	}
	code, err := parseCurrency(currency)
	if err != nil {
		return 0, err
	}
	return s.guarded(ctx, strings.TrimSpace(product.SKU), func(ctx context.Context) (uint, int, error) {
		return s.run(ctx, product, code)
	})
}

func parseCurrency(currency string) (valueobject.CurrencyCode, error) {
	code := valueobject.NormalizeCurrency(currency)
	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", integration.ErrInvalidCurrency, currency)
	}
	return code, nil
}

// guarded runs one pass under the SKU lock and the pass timeout, then
// reports the outcome
func (s *ProductSynchronizer) guarded(ctx context.Context, sku string, pass func(context.Context) (uint, int, error)) (uint, error) {
	start := time.Now()
	log := s.logger.With(zap.String("sku", sku))
	ctx, span := telemetry.StartServiceSpan(ctx, "synchronizer", "synchronize_product",
		telemetry.WithAttribute("sku", sku),
	)
	defer span.End()

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var (
		id         uint
		variations int
		err        error
	)
	unlock, err := s.locker.Lock(ctx, sku)
	if err == nil {
		id, variations, err = pass(ctx)
		unlock()
	}

	class := integration.Classify(err)
	s.recorder.RecordSync(ctx, class, time.Since(start), variations)
	telemetry.SetAttribute(span, "error_class", class.String())
	telemetry.RecordError(span, err)

	switch class {
	case integration.ErrorClassNone:
		log.Info("Product synchronized",
			zap.Uint("product_id", id),
			zap.Int("variations", variations),
			zap.Duration("duration", time.Since(start)),
		)
	case integration.ErrorClassNotFound, integration.ErrorClassPrecondition:
		log.Warn("Product not created", zap.String("error_class", class.String()), zap.Error(err))
	default:
		log.Error("Product synchronization failed", zap.String("error_class", class.String()), zap.Error(err))
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// run executes the pass state machine
func (s *ProductSynchronizer) run(ctx context.Context, src *integration.SourceProduct, currency valueobject.CurrencyCode) (uint, int, error) {
	pass := newSyncPass(src, currency)

	// Start -> TypeResolved
	kind, err := integration.ParseProductKind(src)
	if err != nil {
		return 0, 0, err
	}
	productType, err := s.repos.ProductTypes.FindByID(ctx, strconv.Itoa(src.AttributeSetID))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, 0, fmt.Errorf("%w: attribute set %d", integration.ErrNoProductType, src.AttributeSetID)
		}
		return 0, 0, fmt.Errorf("%w: load product type: %v", integration.ErrPersistence, err)
	}

	// TypeResolved -> VariationsMaterialized
	pass.archetypes = ResolveArchetypes(kind)
	if s.config.BroadenAttributeSets {
		sets, err := s.source.GetProductAttributeSets(ctx, integration.AllAttributeSets())
		if err != nil {
			s.logger.Warn("Attribute sets unavailable, archetypes not broadened", zap.Error(err))
		} else {
			pass.archetypes = append(pass.archetypes, AttributeSetArchetypes(sets)...)
		}
	}
	for _, a := range pass.archetypes {
		if err := s.attributes.EnsureArchetype(ctx, pass, a); err != nil {
			s.logger.Error("Failed to materialize archetype", zap.String("archetype", a.Key), zap.Error(err))
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	links := src.ConfigurableLinks()
	if len(links) == 0 && len(src.ProductLinks) > 0 {
		if err := s.stageOwnVariation(ctx, pass); err != nil {
			return 0, 0, err
		}
	}
	for _, entityID := range links {
		if err := s.stageChild(ctx, pass, entityID); err != nil {
			return 0, 0, err
		}
	}

	variations, err := s.commitVariations(ctx, pass)
	if err != nil {
		return 0, len(variations), err
	}
	if len(variations) == 0 {
		return 0, 0, integration.ErrNoVariations
	}

	// VariationsMaterialized -> ParentPopulated
	product, err := s.loadOrCreateProduct(ctx, src, productType, variations)
	if err != nil {
		return 0, len(variations), err
	}
	alias := s.populateProduct(ctx, pass, product)
	for _, option := range src.Options {
		s.addOns.EnsureAddOnType(ctx, option)
	}

	// ParentPopulated -> Persisted
	if err := s.repos.Products.Save(ctx, product); err != nil {
		return 0, len(variations), fmt.Errorf("%w: save product: %v", integration.ErrPersistence, err)
	}
	if err := s.linkVariations(ctx, product, variations); err != nil {
		return 0, len(variations), err
	}
	if alias != "" {
		if err := s.finishProduct(ctx, pass, product, alias); err != nil {
			return 0, len(variations), err
		}
	}
	return product.ID, len(variations), nil
}

// ---------------------------------------------------------------------------
// Variations
// ---------------------------------------------------------------------------

func (s *ProductSynchronizer) priceOf(pass *syncPass, amount decimal.Decimal) valueobject.Price {
	price, _ := valueobject.NewPrice(amount, pass.currency.String())
	return price
}

// stageOwnVariation stages the single variation a product without
// configurable children owns
func (s *ProductSynchronizer) stageOwnVariation(ctx context.Context, pass *syncPass) error {
	src := pass.source
	price := s.priceOf(pass, src.Price)

	variation, err := s.repos.Variations.FindBySKU(ctx, src.SKU)
	created := false
	switch {
	case err == nil:
		variation.SetPrice(price)
	case errors.Is(err, shared.ErrNotFound):
		archetype, ok := archetypeForSet(pass.archetypes, src.AttributeSetID)
		if !ok {
			archetype = integration.DefaultArchetype()
		}
		variationType, err := s.attributes.EnsureVariationType(ctx, archetype.Key)
		if err != nil {
			return err
		}
		variation, err = catalog.NewVariation(variationType.ID, src.SKU, "Default", price)
		if err != nil {
			return err
		}
		created = true
	default:
		return fmt.Errorf("%w: load variation: %v", integration.ErrPersistence, err)
	}

	s.applyAttributes(ctx, pass, variation, src)
	s.applyImages(ctx, pass, variation, src)
	pass.stage(&stagedVariation{variation: variation, quantity: src.Quantity(), created: created})
	return nil
}

// stageChild stages the variation of one configurable child. An absent
// child is skipped.
func (s *ProductSynchronizer) stageChild(ctx context.Context, pass *syncPass, entityID int) error {
	children, err := s.source.GetProducts(ctx, integration.ProductQuery{
		Filters: []integration.SearchCriteria{integration.EntityIDEquals(entityID)},
	})
	if err != nil || len(children) == 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Warn("Configurable child unavailable", zap.Int("entity_id", entityID), zap.Error(err))
		return nil
	}
	child := &children[0]
	price := s.priceOf(pass, child.Price)
	quantity := pass.source.Quantity()
	if child.ExtensionAttributes.StockItem != nil {
		quantity = child.Quantity()
	}

	variation, err := s.repos.Variations.FindBySKU(ctx, child.SKU)
	switch {
	case err == nil:
		variation.Title = child.Name
		variation.SetPrice(price)
		s.applyImages(ctx, pass, variation, child)
		pass.stage(&stagedVariation{variation: variation, quantity: quantity})
		return nil
	case !errors.Is(err, shared.ErrNotFound):
		return fmt.Errorf("%w: load variation: %v", integration.ErrPersistence, err)
	}

	archetype, ok := archetypeForSet(pass.archetypes, child.AttributeSetID)
	if !ok {
		archetype = integration.DefaultArchetype()
	}
	variationType, err := s.attributes.EnsureVariationType(ctx, archetype.Key)
	if err != nil {
		return err
	}
	for _, code := range variationAttributeCodes {
		if err := s.attributes.AttachAttribute(ctx, variationType.ID, code); err != nil {
			s.logger.Warn("Failed to attach attribute", zap.String("attribute", code), zap.Error(err))
		}
	}

	variation, err = catalog.NewVariation(variationType.ID, child.SKU, child.Name, price)
	if err != nil {
		return err
	}
	s.applyAttributes(ctx, pass, variation, child)
	s.applyImages(ctx, pass, variation, child)
	pass.stage(&stagedVariation{variation: variation, quantity: quantity, created: true})
	return nil
}

// applyAttributes writes custom attributes to the attribute_<code> fields
// the variation type exposes. Option values become attribute value references.
func (s *ProductSynchronizer) applyAttributes(ctx context.Context, pass *syncPass, variation *catalog.Variation, src *integration.SourceProduct) {
	fields, err := s.schema.FieldsOf(ctx, catalog.KindVariation, variation.Type)
	if err != nil {
		s.logger.Warn("Failed to load variation fields", zap.String("variation_type", variation.Type), zap.Error(err))
		return
	}
	for _, attr := range src.CustomAttributes {
		if catalog.IsImageField(attr.AttributeCode) || attr.Value.IsEmpty() {
			continue
		}
		name := catalog.AttributeFieldName(attr.AttributeCode)
		if !fields.Has(name) {
			continue
		}
		value := attr.Value.String()
		if id, ok := s.attributes.ValueFor(ctx, pass, attr.AttributeCode, value); ok {
			variation.Fields.Set(name, catalog.ReferenceItem(id, ""))
		} else {
			variation.Fields.Set(name, catalog.TextItem(value))
		}
	}
}

// applyImages materializes the image, small_image and thumbnail attributes.
// An image that cannot be fetched is skipped.
func (s *ProductSynchronizer) applyImages(ctx context.Context, pass *syncPass, variation *catalog.Variation, src *integration.SourceProduct) {
	for _, code := range catalog.ImageFieldNames {
		value, ok := src.CustomAttribute(code)
		if !ok || value.IsEmpty() {
			continue
		}
		file, err := s.assets.materialize(ctx, pass, value.String())
		if err != nil {
			continue
		}
		variation.Fields.Set(code, catalog.ReferenceItem(file.ID, code))
	}
}

// commitVariations validates the staged variations, then saves them one by
// one. A failed save aborts the pass; variations saved before it stay.
func (s *ProductSynchronizer) commitVariations(ctx context.Context, pass *syncPass) ([]*catalog.Variation, error) {
	valid := make([]*stagedVariation, 0, len(pass.staged))
	for _, staged := range pass.staged {
		if err := staged.variation.Validate(); err != nil {
			s.logger.Warn("Dropping invalid variation", zap.String("variation_sku", staged.variation.SKU), zap.Error(err))
			continue
		}
		valid = append(valid, staged)
	}

	committed := make([]*catalog.Variation, 0, len(valid))
	for _, staged := range valid {
		if err := ctx.Err(); err != nil {
			s.logPartialCommit(committed, valid, err)
			return committed, err
		}
		if err := s.repos.Variations.Save(ctx, staged.variation); err != nil {
			s.logPartialCommit(committed, valid, err)
			return committed, fmt.Errorf("%w: save variation %q: %v", integration.ErrPersistence, staged.variation.SKU, err)
		}
		committed = append(committed, staged.variation)

		if staged.created && staged.quantity.IsPositive() {
			if err := s.stock.ReceiveStock(ctx, staged.variation, s.config.LocationID, staged.quantity, staged.variation.Price); err != nil {
				s.logger.Error("Failed to receive stock",
					zap.String("variation_sku", staged.variation.SKU),
					zap.String("quantity", staged.quantity.String()),
					zap.Error(err),
				)
			}
		}
	}
	return committed, nil
}

func (s *ProductSynchronizer) logPartialCommit(committed []*catalog.Variation, staged []*stagedVariation, err error) {
	skus := make([]string, len(committed))
	for i, v := range committed {
		skus[i] = v.SKU
	}
	s.logger.Error("Variation commit interrupted",
		zap.Strings("committed_skus", skus),
		zap.Int("committed", len(committed)),
		zap.Int("staged", len(staged)),
		zap.Error(err),
	)
}

// ---------------------------------------------------------------------------
// Parent product
// ---------------------------------------------------------------------------

func (s *ProductSynchronizer) loadOrCreateProduct(ctx context.Context, src *integration.SourceProduct, productType *catalog.ProductType, variations []*catalog.Variation) (*catalog.Product, error) {
	product, err := s.repos.Products.FindBySKU(ctx, src.SKU)
	switch {
	case err == nil:
		if src.Name != "" {
			product.Title = src.Name
		}
	case errors.Is(err, shared.ErrNotFound):
		product, err = catalog.NewProduct(productType.ID, src.SKU, src.Name)
		if err != nil {
			return nil, err
		}
		store, err := s.stores.EnsureDefaultStore(ctx)
		if err != nil {
			s.logger.Warn("Default store unavailable", zap.Error(err))
		} else {
			product.AddStore(store.ID)
		}
	default:
		return nil, fmt.Errorf("%w: load product: %v", integration.ErrPersistence, err)
	}

	for _, v := range variations {
		product.AddVariation(v.ID)
	}
	return product, nil
}

// populateProduct routes custom attributes onto the product fields and
// returns the pending URL alias
func (s *ProductSynchronizer) populateProduct(ctx context.Context, pass *syncPass, product *catalog.Product) string {
	fields, err := s.schema.FieldsOf(ctx, catalog.KindProduct, product.Type)
	if err != nil {
		s.logger.Warn("Failed to load product fields", zap.String("product_type", product.Type), zap.Error(err))
		return ""
	}

	alias := ""
	for _, attr := range pass.source.CustomAttributes {
		code := attr.AttributeCode
		if code == integration.AttributeCodeURLPath {
			if !attr.Value.IsEmpty() {
				alias = catalog.NormalizeAlias(attr.Value.String())
			}
			continue
		}
		if !fields.Has(code) {
			continue
		}
		switch {
		case code == integration.AttributeCodeCategoryIDs:
			product.Fields.Set(code)
			for _, raw := range attr.Value.List() {
				categoryID, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil {
					continue
				}
				termID, err := s.taxonomy.TermForCategory(ctx, categoryID)
				if integration.IsAbsent(err) {
					s.logger.Debug("No term for category", zap.Int("category_id", categoryID), zap.Error(err))
					continue
				}
				if err != nil {
					s.logger.Warn("Failed to resolve category term", zap.Int("category_id", categoryID), zap.Error(err))
					continue
				}
				product.Fields.Append(code, catalog.ReferenceItem(termID, ""))
			}

		case s.isMediaImage(ctx, pass, code):
			items := make([]catalog.FieldItem, 0)
			for _, p := range strings.Split(attr.Value.String(), ",") {
				file, err := s.assets.materialize(ctx, pass, p)
				if err != nil {
					continue
				}
				items = append(items, catalog.ReferenceItem(file.ID, code))
			}
			product.Fields.Set(code, items...)

		case code == integration.AttributeCodeDescription:
			html := attr.Value.String()
			if s.sanitizer != nil {
				html = s.sanitizer.Sanitize(html)
			}
			product.Fields.Set(catalog.FieldDescription, catalog.FieldItem{Value: html, Format: catalog.FormatFullHTML})

		default:
			product.Fields.Set(code, catalog.TextItem(attr.Value.String()))
		}
	}

	if fields.Has(catalog.FieldMediaGallery) && fields.Has(catalog.FieldVideoEmbed) {
		s.populateGallery(ctx, pass, product)
	}
	return alias
}

// isMediaImage asks the remote attribute definition, once per code per pass
func (s *ProductSynchronizer) isMediaImage(ctx context.Context, pass *syncPass, code string) bool {
	def, ok := pass.definitions[code]
	if !ok {
		var err error
		def, err = s.source.GetProductAttribute(ctx, code)
		if err != nil {
			def = nil
		}
		pass.definitions[code] = def
	}
	return def.IsMediaImage()
}

// populateGallery rebuilds the gallery and video fields from the media entries
func (s *ProductSynchronizer) populateGallery(ctx context.Context, pass *syncPass, product *catalog.Product) {
	product.Fields.Set(catalog.FieldMediaGallery)
	product.Fields.Set(catalog.FieldVideoEmbed)
	for _, entry := range pass.source.MediaGalleryEntries {
		switch entry.MediaType {
		case integration.MediaTypeImage:
			file, err := s.assets.RegisterFile(ctx, entry.File)
			if err != nil {
				s.logger.Warn("Skipping gallery image", zap.String("file", entry.File), zap.Error(err))
				continue
			}
			product.Fields.Append(catalog.FieldMediaGallery, catalog.ReferenceItem(file.ID, entry.Label))
		case integration.MediaTypeExternalVideo:
			if url := entry.VideoURL(); url != "" {
				product.Fields.Append(catalog.FieldVideoEmbed, catalog.TextItem(url))
			}
		}
	}
}

// linkVariations points every variation of the pass back at its product
func (s *ProductSynchronizer) linkVariations(ctx context.Context, product *catalog.Product, variations []*catalog.Variation) error {
	for _, v := range variations {
		if v.ProductID == product.ID {
			continue
		}
		v.ProductID = product.ID
		if err := s.repos.Variations.Save(ctx, v); err != nil {
			return fmt.Errorf("%w: link variation %q: %v", integration.ErrPersistence, v.SKU, err)
		}
	}
	return nil
}

// finishProduct writes the stock onto the variations and upserts the alias
func (s *ProductSynchronizer) finishProduct(ctx context.Context, pass *syncPass, product *catalog.Product, alias string) error {
	if quantity := pass.source.Quantity(); quantity.IsPositive() {
		variations, err := s.repos.Variations.FindByIDs(ctx, product.VariationIDs)
		if err != nil {
			return fmt.Errorf("%w: load variations: %v", integration.ErrPersistence, err)
		}
		for _, v := range variations {
			v.SetStock(quantity)
			if err := s.repos.Variations.Save(ctx, v); err != nil {
				return fmt.Errorf("%w: save variation stock: %v", integration.ErrPersistence, err)
			}
		}
	}

	path := catalog.ProductPath(product.ID)
	existing, err := s.repos.PathAliases.FindByPath(ctx, path, catalog.DefaultLangcode)
	switch {
	case err == nil:
		existing.Alias = alias
	case errors.Is(err, shared.ErrNotFound):
		existing = &catalog.PathAlias{Path: path, Alias: alias, Langcode: catalog.DefaultLangcode}
	default:
		return fmt.Errorf("%w: load alias: %v", integration.ErrPersistence, err)
	}
	if err := s.repos.PathAliases.Save(ctx, existing); err != nil {
		return fmt.Errorf("%w: save alias: %v", integration.ErrPersistence, err)
	}
	return nil
}
