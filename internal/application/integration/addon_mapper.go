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

// DefaultAddOnType is used for custom option types without a mapping
const DefaultAddOnType = "default"

// AddOnTypeMapper turns remote custom options into add-on types and the
// fields that hold buyer input
type AddOnTypeMapper struct {
	addOnTypes catalog.AddOnTypeRepository
	schema     *SchemaProvisioner
	logger     *zap.Logger
}

// NewAddOnTypeMapper creates a new AddOnTypeMapper
func NewAddOnTypeMapper(addOnTypes catalog.AddOnTypeRepository, schema *SchemaProvisioner, logger *zap.Logger) *AddOnTypeMapper {
	return &AddOnTypeMapper{
		addOnTypes: addOnTypes,
		schema:     schema,
		logger:     logger.Named("addons"),
	}
}

// addOnSpec derives the add-on type id, field name, field kind and allowed
// values for a custom option
func addOnSpec(option integration.CustomOption) (typeID, fieldName string, kind catalog.FieldKind, allowed []string) {
	switch option.Type {
	case "area", "field":
		return "field", catalog.AddOnOptionTextField, catalog.FieldKindStringLong, nil
	case "checkbox", "drop_down", "multiple", "radio":
		name := fmt.Sprintf("list_string%d", option.OptionID)
		for _, v := range option.Values {
			if v.Title != "" {
				allowed = append(allowed, v.Title)
			}
		}
		return name, name, catalog.FieldKindListString, allowed
	case "file":
		name := fmt.Sprintf("file%d", option.OptionID)
		return name, name, catalog.FieldKindFile, nil
	default:
		return DefaultAddOnType, catalog.AddOnOptionTextField, catalog.FieldKindStringLong, nil
	}
}

// EnsureAddOnType loads or creates the add-on type for option, provisions
// its input field and returns the type id
func (m *AddOnTypeMapper) EnsureAddOnType(ctx context.Context, option integration.CustomOption) string {
	typeID, fieldName, kind, allowed := addOnSpec(option)
	log := m.logger.With(zap.String("addon_type", typeID), zap.Int("option_id", option.OptionID))

	if _, err := m.addOnTypes.FindByID(ctx, typeID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.Error("Failed to load add-on type", zap.Error(err))
			return typeID
		}
		if err := m.addOnTypes.Save(ctx, &catalog.AddOnType{ID: typeID, Label: typeID}); err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
			log.Error("Failed to create add-on type", zap.Error(err))
			return typeID
		}
		log.Info("Created add-on type")
	}

	m.schema.EnsureField(ctx, catalog.FieldSpec{
		EntityKind:    catalog.KindAddOn,
		Bundle:        catalog.AddOnFieldBundle,
		FieldName:     fieldName,
		FieldKind:     kind,
		AllowedValues: allowed,
	})
	return typeID
}
