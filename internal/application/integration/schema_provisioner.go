package integration

import (
	"context"
	"errors"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/shared"
	"go.uber.org/zap"
)

// SchemaProvisioner makes configurable fields available on bundles before
// values are written to them.
type SchemaProvisioner struct {
	fields catalog.FieldRepository
	logger *zap.Logger
}

// NewSchemaProvisioner creates a new SchemaProvisioner
func NewSchemaProvisioner(fields catalog.FieldRepository, logger *zap.Logger) *SchemaProvisioner {
	return &SchemaProvisioner{
		fields: fields,
		logger: logger.Named("schema"),
	}
}

// EnsureField provisions the storage for (kind, field name) and attaches it
// to the bundle. Each step checks for an existing record first. It reports
// whether the bundle attachment was created by this call; failures are
// logged and reported as false.
func (p *SchemaProvisioner) EnsureField(ctx context.Context, spec catalog.FieldSpec) bool {
	log := p.logger.With(
		zap.String("entity_kind", spec.EntityKind.String()),
		zap.String("bundle", spec.Bundle),
		zap.String("field", spec.FieldName),
	)
	if err := spec.Validate(); err != nil {
		log.Warn("Rejected field spec", zap.Error(err))
		return false
	}

	if _, err := p.fields.FindStorage(ctx, spec.EntityKind, spec.FieldName); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.Error("Failed to load field storage", zap.Error(err))
			return false
		}
		if err := p.fields.SaveStorage(ctx, spec.Storage()); err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
			log.Error("Failed to create field storage", zap.Error(err))
			return false
		}
		log.Debug("Created field storage", zap.String("field_kind", string(spec.FieldKind)))
	}

	if _, err := p.fields.FindConfig(ctx, spec.EntityKind, spec.Bundle, spec.FieldName); err == nil {
		return false
	} else if !errors.Is(err, shared.ErrNotFound) {
		log.Error("Failed to load field config", zap.Error(err))
		return false
	}
	if err := p.fields.SaveConfig(ctx, spec.Config()); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			log.Error("Failed to create field config", zap.Error(err))
		}
		return false
	}
	log.Info("Provisioned field")
	return true
}

// HasField reports whether the bundle exposes the field, either built in or configured
func (p *SchemaProvisioner) HasField(ctx context.Context, kind catalog.EntityKind, bundle, name string) bool {
	if catalog.IsBaseField(kind, name) {
		return true
	}
	_, err := p.fields.FindConfig(ctx, kind, bundle, name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		p.logger.Warn("Failed to check field",
			zap.String("entity_kind", kind.String()),
			zap.String("bundle", bundle),
			zap.String("field", name),
			zap.Error(err),
		)
	}
	return err == nil
}

// fieldSet is the set of field names a bundle exposes
type fieldSet map[string]bool

// Has reports whether name is in the set
func (s fieldSet) Has(name string) bool {
	return s[name]
}

// FieldsOf loads the base and configured fields of a bundle in one query
func (p *SchemaProvisioner) FieldsOf(ctx context.Context, kind catalog.EntityKind, bundle string) (fieldSet, error) {
	configs, err := p.fields.ListConfigs(ctx, kind, bundle)
	if err != nil {
		return nil, err
	}
	set := make(fieldSet, len(configs))
	for _, c := range configs {
		set[c.FieldName] = true
	}
	for _, name := range catalog.BaseFields(kind) {
		set[name] = true
	}
	return set, nil
}
