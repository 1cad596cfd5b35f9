package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"go.uber.org/zap"
)

// AttributeMapper materializes archetypes as variation types, attributes and
// attribute values. Attributes are global: every product sharing an
// archetype key reuses the same attribute and values.
type AttributeMapper struct {
	source         integration.AttributeSource
	attributes     catalog.AttributeRepository
	variationTypes catalog.VariationTypeRepository
	schema         *SchemaProvisioner
	logger         *zap.Logger
}

// NewAttributeMapper creates a new AttributeMapper
func NewAttributeMapper(
	source integration.AttributeSource,
	attributes catalog.AttributeRepository,
	variationTypes catalog.VariationTypeRepository,
	schema *SchemaProvisioner,
	logger *zap.Logger,
) *AttributeMapper {
	return &AttributeMapper{
		source:         source,
		attributes:     attributes,
		variationTypes: variationTypes,
		schema:         schema,
		logger:         logger.Named("attributes"),
	}
}

// EnsureArchetype makes one archetype usable: its variation type, its
// attribute attached to that type, the three image fields and, when an
// option table backs the archetype, one attribute value per option.
//
// Only a failure to persist the variation type or attribute is returned.
// Value failures are logged and skipped.
func (m *AttributeMapper) EnsureArchetype(ctx context.Context, pass *syncPass, a integration.Archetype) error {
	variationType, err := m.EnsureVariationType(ctx, a.Key)
	if err != nil {
		return err
	}
	attr, err := m.EnsureAttribute(ctx, a)
	if err != nil {
		return err
	}

	for _, name := range catalog.ImageFieldNames {
		m.schema.EnsureField(ctx, catalog.FieldSpec{
			EntityKind: catalog.KindVariation,
			Bundle:     variationType.ID,
			FieldName:  name,
			FieldKind:  catalog.FieldKindImage,
		})
	}
	m.attachField(ctx, variationType.ID, attr.ID)

	if !a.HasSourceAttribute() {
		return nil
	}
	source := m.optionTable(ctx, pass, a.SourceAttributeID)
	if source == nil {
		return nil
	}
	pass.optionOwner[a.SourceAttributeID] = attr.ID
	for _, opt := range source.Options {
		if !opt.IsSelectable() || opt.Label == "" {
			continue
		}
		if _, err := m.EnsureAttributeValue(ctx, attr, opt.Value.String(), opt.Label); err != nil {
			m.logger.Error("Failed to create attribute value",
				zap.String("attribute", attr.ID),
				zap.String("value", opt.Value.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// optionTable fetches the definition of a remote attribute once per pass
func (m *AttributeMapper) optionTable(ctx context.Context, pass *syncPass, id string) *integration.SourceAttribute {
	if cached, ok := pass.options[id]; ok {
		return cached
	}
	attr, err := m.source.GetProductAttribute(ctx, id)
	if err != nil {
		m.logger.Warn("Attribute option table unavailable", zap.String("attribute_id", id), zap.Error(err))
		attr = nil
	}
	pass.cacheOptions(id, attr)
	return attr
}

// EnsureVariationType loads the variation type keyed by the archetype key,
// creating it when absent
func (m *AttributeMapper) EnsureVariationType(ctx context.Context, key string) (*catalog.VariationType, error) {
	existing, err := m.variationTypes.FindByID(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: load variation type %q: %v", integration.ErrPersistence, key, err)
	}

	variationType, err := catalog.NewVariationType(key, key)
	if err != nil {
		return nil, err
	}
	if err := m.variationTypes.Save(ctx, variationType); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return m.variationTypes.FindByID(ctx, key)
		}
		m.logger.Error("Failed to create variation type", zap.String("variation_type", key), zap.Error(err))
		return nil, fmt.Errorf("%w: create variation type %q: %v", integration.ErrPersistence, key, err)
	}
	m.logger.Info("Created variation type", zap.String("variation_type", key))
	return variationType, nil
}

// EnsureAttribute loads the attribute keyed by the archetype key, creating
// it with label = key when absent
func (m *AttributeMapper) EnsureAttribute(ctx context.Context, a integration.Archetype) (*catalog.Attribute, error) {
	existing, err := m.attributes.FindByID(ctx, a.Key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: load attribute %q: %v", integration.ErrPersistence, a.Key, err)
	}

	attr, err := catalog.NewAttribute(a.Key, a.Key)
	if err != nil {
		return nil, err
	}
	if err := m.attributes.Save(ctx, attr); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return m.attributes.FindByID(ctx, a.Key)
		}
		m.logger.Error("Failed to create attribute", zap.String("attribute", a.Key), zap.Error(err))
		return nil, fmt.Errorf("%w: create attribute %q: %v", integration.ErrPersistence, a.Key, err)
	}
	m.logger.Info("Created attribute", zap.String("attribute", a.Key))
	return attr, nil
}

// EnsureAttributeValue reuses the value keyed by (attribute, source value) or creates it
func (m *AttributeMapper) EnsureAttributeValue(ctx context.Context, attr *catalog.Attribute, value, label string) (*catalog.AttributeValue, error) {
	existing, err := m.attributes.FindValue(ctx, attr.ID, value)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: load attribute value: %v", integration.ErrPersistence, err)
	}

	attrValue, err := catalog.NewAttributeValue(attr.ID, value, label)
	if err != nil {
		return nil, err
	}
	if err := m.attributes.SaveValue(ctx, attrValue); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return m.attributes.FindValue(ctx, attr.ID, value)
		}
		return nil, fmt.Errorf("%w: create attribute value: %v", integration.ErrPersistence, err)
	}
	return attrValue, nil
}

// AttachAttribute ensures the attribute named code exists and is exposed as
// an attribute_<code> reference field on the variation type
func (m *AttributeMapper) AttachAttribute(ctx context.Context, variationTypeID, code string) error {
	attr, err := m.EnsureAttribute(ctx, integration.Archetype{Key: code})
	if err != nil {
		return err
	}
	m.attachField(ctx, variationTypeID, attr.ID)
	return nil
}

func (m *AttributeMapper) attachField(ctx context.Context, variationTypeID, attributeID string) {
	m.schema.EnsureField(ctx, catalog.FieldSpec{
		EntityKind: catalog.KindVariation,
		Bundle:     variationTypeID,
		FieldName:  catalog.AttributeFieldName(attributeID),
		FieldKind:  catalog.FieldKindEntityReference,
	})
}

// ValueFor maps a custom attribute value onto the id of the matching
// attribute value, using the option tables fetched during the pass
func (m *AttributeMapper) ValueFor(ctx context.Context, pass *syncPass, code, value string) (uint, bool) {
	owner, opt, ok := pass.matchOption(code, value)
	if !ok || owner == "" {
		return 0, false
	}
	attrValue, err := m.attributes.FindValue(ctx, owner, opt.Value.String())
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			m.logger.Warn("Failed to load attribute value", zap.String("attribute", owner), zap.Error(err))
		}
		return 0, false
	}
	return attrValue.ID, true
}
