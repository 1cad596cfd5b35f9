package integration

import (
	"context"
	"testing"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOnTypeMapper_EnsureAddOnType(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		option    integration.CustomOption
		wantType  string
		wantField string
		wantKind  catalog.FieldKind
		allowed   map[string]string
	}{
		{
			name:      "text area",
			option:    integration.CustomOption{OptionID: 1, Type: "area"},
			wantType:  "field",
			wantField: catalog.AddOnOptionTextField,
			wantKind:  catalog.FieldKindStringLong,
		},
		{
			name: "drop down lists value titles",
			option: integration.CustomOption{OptionID: 7, Type: "drop_down", Values: []integration.CustomOptionValue{
				{Title: "Gift wrap"},
				{Title: ""},
				{Title: "Card"},
			}},
			wantType:  "list_string7",
			wantField: "list_string7",
			wantKind:  catalog.FieldKindListString,
			allowed:   map[string]string{"Gift wrap": "Gift wrap", "Card": "Card"},
		},
		{
			name:      "file upload",
			option:    integration.CustomOption{OptionID: 8, Type: "file"},
			wantType:  "file8",
			wantField: "file8",
			wantKind:  catalog.FieldKindFile,
		},
		{
			name:      "unmapped type",
			option:    integration.CustomOption{OptionID: 9, Type: "date_time"},
			wantType:  DefaultAddOnType,
			wantField: catalog.AddOnOptionTextField,
			wantKind:  catalog.FieldKindStringLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			typeID := env.engine.AddOns.EnsureAddOnType(ctx, tt.option)
			assert.Equal(t, tt.wantType, typeID)

			addOnType, err := env.repos.AddOnTypes.FindByID(ctx, tt.wantType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, addOnType.Label)

			storage, err := env.repos.Fields.FindStorage(ctx, catalog.KindAddOn, tt.wantField)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, storage.FieldKind)
			if tt.allowed != nil {
				assert.Equal(t, tt.allowed, storage.AllowedValues)
			}
			assert.True(t, env.engine.Schema.HasField(ctx, catalog.KindAddOn, catalog.AddOnFieldBundle, tt.wantField))

			assert.Equal(t, typeID, env.engine.AddOns.EnsureAddOnType(ctx, tt.option))
		})
	}
}
