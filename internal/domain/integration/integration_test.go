package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Key normalization
// ---------------------------------------------------------------------------

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Color", "color"},
		{"Primary Color!!", "primary_color_"},
		{"  Size  ", "_size_"},
		{"MB-01/blue", "mb_01_blue"},
		{"already_ok_9", "already_ok_9"},
		{"Größe", "gr_e"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.in))
		})
	}
}

func TestAttributeSetKey(t *testing.T) {
	assert.Equal(t, "bag_set", AttributeSetKey("Bag Set"))
	assert.Equal(t, "top-set", AttributeSetKey("Top-Set"))
}

func TestArchetype_MatchesAttributeSet(t *testing.T) {
	setArchetype := Archetype{Key: "bag", AttributeSetID: 15}
	optionArchetype := Archetype{Key: "color", SourceAttributeID: "93"}

	assert.True(t, setArchetype.MatchesAttributeSet(15))
	assert.False(t, setArchetype.MatchesAttributeSet(16))
	assert.True(t, optionArchetype.MatchesAttributeSet(93))
	assert.False(t, DefaultArchetype().MatchesAttributeSet(0))
}

// ---------------------------------------------------------------------------
// Product decoding
// ---------------------------------------------------------------------------

const configurablePayload = `{
  "id": 67,
  "sku": "MH01",
  "name": "Chaz Kangeroo Hoodie",
  "attribute_set_id": 9,
  "price": 52,
  "type_id": "configurable",
  "extension_attributes": {
    "configurable_product_options": [
      {"id": 1, "attribute_id": "93", "label": "Color", "position": 0},
      {"id": 2, "attribute_id": 144, "label": "Size", "position": 1}
    ],
    "configurable_product_links": [52, 53],
    "stock_item": {"qty": "5.0000", "is_in_stock": true}
  },
  "product_links": [],
  "custom_attributes": [
    {"attribute_code": "description", "value": "<p>Warm</p>"},
    {"attribute_code": "category_ids", "value": ["15", 36]},
    {"attribute_code": "url_key", "value": "chaz-kangeroo-hoodie"}
  ]
}`

func TestSourceProduct_Decode(t *testing.T) {
	var p SourceProduct
	require.NoError(t, json.Unmarshal([]byte(configurablePayload), &p))

	assert.Equal(t, "MH01", p.SKU)
	assert.True(t, decimal.NewFromInt(52).Equal(p.Price))
	assert.True(t, decimal.NewFromInt(5).Equal(p.Quantity()))
	assert.Equal(t, []int{52, 53}, p.ConfigurableLinks())

	opts := p.ConfigurableOptions()
	require.Len(t, opts, 2)
	assert.Equal(t, FlexString("93"), opts[0].AttributeID)
	assert.Equal(t, FlexString("144"), opts[1].AttributeID)

	cats, ok := p.CustomAttribute(AttributeCodeCategoryIDs)
	require.True(t, ok)
	assert.True(t, cats.IsList())
	assert.Equal(t, []string{"15", "36"}, cats.List())

	desc, ok := p.CustomAttribute(AttributeCodeDescription)
	require.True(t, ok)
	assert.Equal(t, "<p>Warm</p>", desc.String())

	_, ok = p.CustomAttribute("missing")
	assert.False(t, ok)
}

func TestSourceProduct_QuantityWithoutStockItem(t *testing.T) {
	p := SourceProduct{SKU: "X"}
	assert.True(t, p.Quantity().IsZero())
}

func TestAttributeValue_RoundTrip(t *testing.T) {
	data, err := json.Marshal(ListValue("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	var v AttributeValue
	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.True(t, v.IsEmpty())
	assert.Nil(t, v.List())
}

func TestMediaGalleryEntry_VideoURL(t *testing.T) {
	entry := MediaGalleryEntry{
		MediaType: MediaTypeExternalVideo,
		ExtensionAttributes: &MediaEntryExtension{
			VideoContent: &VideoContent{VideoURL: `https:\/\/youtu.be\/abc`},
		},
	}
	assert.Equal(t, "https://youtu.be/abc", entry.VideoURL())
	assert.Equal(t, "", MediaGalleryEntry{}.VideoURL())
}

func TestProductLink_TargetSKU(t *testing.T) {
	assert.Equal(t, "Y", ProductLink{SKU: "Y"}.TargetSKU())
	assert.Equal(t, "CHILD", ProductLink{SKU: "PARENT", LinkedProductSKU: "CHILD"}.TargetSKU())
}

// ---------------------------------------------------------------------------
// Product kind
// ---------------------------------------------------------------------------

func TestParseProductKind(t *testing.T) {
	tests := []struct {
		typeID   string
		expected ProductKind
		wantErr  bool
	}{
		{TypeSimple, SimpleProduct{}, false},
		{TypeBundle, BundleProduct{}, false},
		{TypeVirtual, VirtualProduct{}, false},
		{TypeGrouped, GroupedProduct{}, false},
		{TypeConfigurable, ConfigurableProduct{}, false},
		{"downloadable", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.typeID, func(t *testing.T) {
			kind, err := ParseProductKind(&SourceProduct{TypeID: tt.typeID})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownProductType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typeID, kind.TypeID())
			assert.IsType(t, tt.expected, kind)
		})
	}
}

// ---------------------------------------------------------------------------
// Errors and results
// ---------------------------------------------------------------------------

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil", nil, ErrorClassNone},
		{"not found", fmt.Errorf("product X: %w", ErrSourceNotFound), ErrorClassNotFound},
		{"repo not found", shared.ErrNotFound, ErrorClassNotFound},
		{"transport", fmt.Errorf("%w: timeout", ErrSourceUnavailable), ErrorClassTransport},
		{"precondition", ErrNoProductType, ErrorClassPrecondition},
		{"no variations", ErrNoVariations, ErrorClassPrecondition},
		{"locked", ErrSKULocked, ErrorClassConflict},
		{"cancelled", context.Canceled, ErrorClassCancelled},
		{"other", errors.New("disk full"), ErrorClassPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}

	assert.True(t, IsAbsent(ErrSourceUnavailable))
	assert.False(t, IsAbsent(ErrNoVariations))
}

func TestBatchResult(t *testing.T) {
	r := NewBatchResult("run-1", 3)
	r.Record("A", 1, nil)
	r.Record("B", 0, ErrNoVariations)
	r.Record("C", 3, nil)
	r.Finish()

	assert.Equal(t, SyncStatusPartial, r.Status)
	assert.Equal(t, 2, r.SuccessCount)
	assert.Equal(t, 1, r.FailedCount)
	require.Len(t, r.FailedItems, 1)
	assert.Equal(t, ErrorClassPrecondition, r.FailedItems[0].ErrorClass)

	empty := NewBatchResult("run-2", 0)
	empty.Finish()
	assert.Equal(t, SyncStatusSuccess, empty.Status)
}
