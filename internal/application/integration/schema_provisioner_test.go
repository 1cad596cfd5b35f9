package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockFieldRepository is a mock implementation of catalog.FieldRepository
type MockFieldRepository struct {
	mock.Mock
}

func (m *MockFieldRepository) FindStorage(ctx context.Context, kind catalog.EntityKind, fieldName string) (*catalog.FieldStorage, error) {
	args := m.Called(ctx, kind, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.FieldStorage), args.Error(1)
}

func (m *MockFieldRepository) SaveStorage(ctx context.Context, storage *catalog.FieldStorage) error {
	args := m.Called(ctx, storage)
	return args.Error(0)
}

func (m *MockFieldRepository) FindConfig(ctx context.Context, kind catalog.EntityKind, bundle, fieldName string) (*catalog.FieldConfig, error) {
	args := m.Called(ctx, kind, bundle, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.FieldConfig), args.Error(1)
}

func (m *MockFieldRepository) SaveConfig(ctx context.Context, config *catalog.FieldConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockFieldRepository) ListConfigs(ctx context.Context, kind catalog.EntityKind, bundle string) ([]catalog.FieldConfig, error) {
	args := m.Called(ctx, kind, bundle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.FieldConfig), args.Error(1)
}

var colorSpec = catalog.FieldSpec{
	EntityKind:    catalog.KindVariation,
	Bundle:        "color",
	FieldName:     "attribute_color",
	FieldKind:     catalog.FieldKindEntityReference,
	AllowedValues: []string{"Black", "Blue"},
}

func TestSchemaProvisioner_EnsureField(t *testing.T) {
	ctx := context.Background()

	t.Run("creates storage and config", func(t *testing.T) {
		repo := new(MockFieldRepository)
		repo.On("FindStorage", ctx, catalog.KindVariation, "attribute_color").Return(nil, shared.ErrNotFound)
		repo.On("SaveStorage", ctx, mock.MatchedBy(func(s *catalog.FieldStorage) bool {
			return s.FieldName == "attribute_color" && s.AllowedValues["Black"] == "Black" && s.Cardinality == 1
		})).Return(nil)
		repo.On("FindConfig", ctx, catalog.KindVariation, "color", "attribute_color").Return(nil, shared.ErrNotFound)
		repo.On("SaveConfig", ctx, mock.MatchedBy(func(c *catalog.FieldConfig) bool {
			return c.Bundle == "color" && c.Label == "attribute_color"
		})).Return(nil)

		assert.True(t, NewSchemaProvisioner(repo, zap.NewNop()).EnsureField(ctx, colorSpec))
		repo.AssertExpectations(t)
	})

	t.Run("existing storage is reused", func(t *testing.T) {
		repo := new(MockFieldRepository)
		repo.On("FindStorage", ctx, catalog.KindVariation, "attribute_color").Return(&catalog.FieldStorage{ID: 1}, nil)
		repo.On("FindConfig", ctx, catalog.KindVariation, "color", "attribute_color").Return(nil, shared.ErrNotFound)
		repo.On("SaveConfig", ctx, mock.Anything).Return(nil)

		assert.True(t, NewSchemaProvisioner(repo, zap.NewNop()).EnsureField(ctx, colorSpec))
		repo.AssertNotCalled(t, "SaveStorage", mock.Anything, mock.Anything)
	})

	t.Run("existing config reports false", func(t *testing.T) {
		repo := new(MockFieldRepository)
		repo.On("FindStorage", ctx, catalog.KindVariation, "attribute_color").Return(&catalog.FieldStorage{ID: 1}, nil)
		repo.On("FindConfig", ctx, catalog.KindVariation, "color", "attribute_color").Return(&catalog.FieldConfig{ID: 2}, nil)

		assert.False(t, NewSchemaProvisioner(repo, zap.NewNop()).EnsureField(ctx, colorSpec))
		repo.AssertNotCalled(t, "SaveConfig", mock.Anything, mock.Anything)
	})

	t.Run("concurrent storage creation is tolerated", func(t *testing.T) {
		repo := new(MockFieldRepository)
		repo.On("FindStorage", ctx, catalog.KindVariation, "attribute_color").Return(nil, shared.ErrNotFound)
		repo.On("SaveStorage", ctx, mock.Anything).Return(shared.ErrAlreadyExists)
		repo.On("FindConfig", ctx, catalog.KindVariation, "color", "attribute_color").Return(nil, shared.ErrNotFound)
		repo.On("SaveConfig", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		assert.False(t, NewSchemaProvisioner(repo, zap.NewNop()).EnsureField(ctx, colorSpec))
		repo.AssertExpectations(t)
	})

	t.Run("storage lookup failure stops", func(t *testing.T) {
		repo := new(MockFieldRepository)
		repo.On("FindStorage", ctx, catalog.KindVariation, "attribute_color").Return(nil, errors.New("db down"))

		assert.False(t, NewSchemaProvisioner(repo, zap.NewNop()).EnsureField(ctx, colorSpec))
		repo.AssertNotCalled(t, "FindConfig", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid spec touches nothing", func(t *testing.T) {
		repo := new(MockFieldRepository)

		assert.False(t, NewSchemaProvisioner(repo, zap.NewNop()).EnsureField(ctx, catalog.FieldSpec{
			EntityKind: catalog.KindProduct,
			FieldName:  "image",
			FieldKind:  catalog.FieldKindImage,
		}))
		repo.AssertNotCalled(t, "FindStorage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSchemaProvisioner_HasField(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFieldRepository)
	repo.On("FindConfig", ctx, catalog.KindProduct, "9", "image").Return(&catalog.FieldConfig{ID: 1}, nil)
	repo.On("FindConfig", ctx, catalog.KindProduct, "9", "color").Return(nil, shared.ErrNotFound)
	repo.On("FindConfig", ctx, catalog.KindProduct, "9", "size").Return(nil, errors.New("db down"))

	p := NewSchemaProvisioner(repo, zap.NewNop())
	assert.True(t, p.HasField(ctx, catalog.KindProduct, "9", "title"))
	assert.True(t, p.HasField(ctx, catalog.KindProduct, "9", "image"))
	assert.False(t, p.HasField(ctx, catalog.KindProduct, "9", "color"))
	assert.False(t, p.HasField(ctx, catalog.KindProduct, "9", "size"))
	repo.AssertNotCalled(t, "FindConfig", ctx, catalog.KindProduct, "9", "title")
}

func TestSchemaProvisioner_FieldsOf(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFieldRepository)
	repo.On("ListConfigs", ctx, catalog.KindVariation, "color").
		Return([]catalog.FieldConfig{{FieldName: "attribute_color"}}, nil)
	repo.On("ListConfigs", ctx, catalog.KindVariation, "broken").Return(nil, errors.New("db down"))

	p := NewSchemaProvisioner(repo, zap.NewNop())
	fields, err := p.FieldsOf(ctx, catalog.KindVariation, "color")
	require.NoError(t, err)
	assert.True(t, fields.Has("attribute_color"))
	assert.False(t, fields.Has("attribute_size"))
	for _, name := range catalog.BaseFields(catalog.KindVariation) {
		assert.True(t, fields.Has(name), name)
	}

	_, err = p.FieldsOf(ctx, catalog.KindVariation, "broken")
	assert.Error(t, err)
}

func TestFieldKindFor(t *testing.T) {
	tests := []struct {
		name string
		attr *integration.SourceAttribute
		want catalog.FieldKind
	}{
		{"nil", nil, catalog.FieldKindString},
		{"media image", &integration.SourceAttribute{FrontendInput: "media_image"}, catalog.FieldKindImage},
		{"textarea", &integration.SourceAttribute{FrontendInput: "textarea"}, catalog.FieldKindTextLong},
		{"select", &integration.SourceAttribute{FrontendInput: "select", BackendType: "int"}, catalog.FieldKindListString},
		{"boolean", &integration.SourceAttribute{FrontendInput: "boolean"}, catalog.FieldKindBoolean},
		{"price", &integration.SourceAttribute{FrontendInput: "price"}, catalog.FieldKindDecimal},
		{"int backend", &integration.SourceAttribute{FrontendInput: "text", BackendType: "int"}, catalog.FieldKindInteger},
		{"text backend", &integration.SourceAttribute{BackendType: "text"}, catalog.FieldKindTextLong},
		{"varchar", &integration.SourceAttribute{FrontendInput: "text", BackendType: "varchar"}, catalog.FieldKindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldKindFor(tt.attr))
		})
	}

	assert.Equal(t, catalog.FieldKindEntityReference,
		productFieldKind(&integration.SourceAttribute{AttributeCode: "category_ids", BackendType: "static"}))
}
