package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Flexible JSON scalars
// ---------------------------------------------------------------------------

// FlexString decodes from either a JSON string or a JSON number.
// The remote catalog is inconsistent about ids ("93" vs 93).
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s, err := scalarToString(data)
	if err != nil {
		return err
	}
	*f = FlexString(s)
	return nil
}

// String returns the string representation
func (f FlexString) String() string {
	return string(f)
}

// Int parses the value as an integer, 0 when it is not numeric
func (f FlexString) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0
	}
	return n
}

func scalarToString(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("unsupported scalar %s", string(trimmed))
	}
}

// AttributeValue is the value of a custom attribute: a scalar or a list
// (category_ids is a list, everything else is a scalar string).
type AttributeValue struct {
	scalar string
	list   []string
	isList bool
}

// StringValue builds a scalar attribute value
func StringValue(s string) AttributeValue {
	return AttributeValue{scalar: s}
}

// ListValue builds a list attribute value
func ListValue(items ...string) AttributeValue {
	return AttributeValue{list: items, isList: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			s, err := scalarToString(r)
			if err != nil {
				return err
			}
			items = append(items, s)
		}
		*v = AttributeValue{list: items, isList: true}
		return nil
	}
	s, err := scalarToString(trimmed)
	if err != nil {
		return err
	}
	*v = AttributeValue{scalar: s}
	return nil
}

// MarshalJSON implements json.Marshaler
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// IsList reports whether the value was a JSON array
func (v AttributeValue) IsList() bool {
	return v.isList
}

// IsEmpty reports whether there is nothing to write
func (v AttributeValue) IsEmpty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

// String returns the scalar, or the list joined with commas
func (v AttributeValue) String() string {
	if v.isList {
		return strings.Join(v.list, ",")
	}
	return v.scalar
}

// List returns the list items, or the scalar as a one-element list
func (v AttributeValue) List() []string {
	if v.isList {
		out := make([]string, len(v.list))
		copy(out, v.list)
		return out
	}
	if v.scalar == "" {
		return nil
	}
	return []string{v.scalar}
}

// ---------------------------------------------------------------------------
// Product records
// ---------------------------------------------------------------------------

// Remote product type classifiers
const (
	TypeSimple       = "simple"
	TypeConfigurable = "configurable"
	TypeGrouped      = "grouped"
	TypeBundle       = "bundle"
	TypeVirtual      = "virtual"
)

// Link types found in product_links
const (
	LinkTypeAssociated = "associated"
	LinkTypeRelated    = "related"
)

// Media gallery entry kinds
const (
	MediaTypeImage         = "image"
	MediaTypeExternalVideo = "external-video"
)

// Custom attribute codes with dedicated routing
const (
	AttributeCodeCategoryIDs = "category_ids"
	AttributeCodeDescription = "description"
	AttributeCodeURLPath     = "url_path"
	AttributeCodePath        = "path"
)

// SourceProduct is one decoded product record from the remote catalog.
type SourceProduct struct {
	ID                  int                 `json:"id"`
	SKU                 string              `json:"sku"`
	Name                string              `json:"name"`
	TypeID              string              `json:"type_id"`
	AttributeSetID      int                 `json:"attribute_set_id"`
	Price               decimal.Decimal     `json:"price"`
	Status              int                 `json:"status"`
	Visibility          int                 `json:"visibility"`
	CustomAttributes    []CustomAttribute   `json:"custom_attributes"`
	ExtensionAttributes ExtensionAttributes `json:"extension_attributes"`
	ProductLinks        []ProductLink       `json:"product_links"`
	MediaGalleryEntries []MediaGalleryEntry `json:"media_gallery_entries"`
	Options             []CustomOption      `json:"options"`
}

// CustomAttribute is one (code, value) pair
type CustomAttribute struct {
	AttributeCode string         `json:"attribute_code"`
	Value         AttributeValue `json:"value"`
}

// ExtensionAttributes holds the configurable wiring and stock
type ExtensionAttributes struct {
	ConfigurableProductOptions []ConfigurableOption `json:"configurable_product_options"`
	// ConfigurableProductLinks are child product entity ids
	ConfigurableProductLinks []int                `json:"configurable_product_links"`
	StockItem                *StockItem           `json:"stock_item,omitempty"`
}

// ConfigurableOption is one axis of a configurable product (e.g. Color)
type ConfigurableOption struct {
	ID          int        `json:"id"`
	AttributeID FlexString `json:"attribute_id"`
	Label       string     `json:"label"`
	Position    int        `json:"position"`
}

// StockItem carries the stock quantity
type StockItem struct {
	Qty       decimal.Decimal `json:"qty"`
	IsInStock bool            `json:"is_in_stock"`
}

// ProductLink relates the product to another SKU
type ProductLink struct {
	SKU               string `json:"sku"`
	LinkType          string `json:"link_type"`
	LinkedProductSKU  string `json:"linked_product_sku"`
	LinkedProductType string `json:"linked_product_type"`
	Position          int    `json:"position"`
}

// TargetSKU is the SKU of the linked product, falling back to sku when the
// linked field is absent.
func (l ProductLink) TargetSKU() string {
	if l.LinkedProductSKU != "" {
		return l.LinkedProductSKU
	}
	return l.SKU
}

// MediaGalleryEntry is an image or an external video
type MediaGalleryEntry struct {
	ID                  int                  `json:"id"`
	MediaType           string               `json:"media_type"`
	Label               string               `json:"label"`
	Position            int                  `json:"position"`
	Disabled            bool                 `json:"disabled"`
	Types               []string             `json:"types"`
	File                string               `json:"file"`
	ExtensionAttributes *MediaEntryExtension `json:"extension_attributes,omitempty"`
}

// MediaEntryExtension holds video metadata
type MediaEntryExtension struct {
	VideoContent *VideoContent `json:"video_content,omitempty"`
}

// VideoContent describes an external video
type VideoContent struct {
	MediaType        string `json:"media_type"`
	VideoProvider    string `json:"video_provider"`
	VideoURL         string `json:"video_url"`
	VideoTitle       string `json:"video_title"`
	VideoDescription string `json:"video_description"`
}

// VideoURL returns the embed URL with escape backslashes removed
func (e MediaGalleryEntry) VideoURL() string {
	if e.ExtensionAttributes == nil || e.ExtensionAttributes.VideoContent == nil {
		return ""
	}
	return strings.ReplaceAll(e.ExtensionAttributes.VideoContent.VideoURL, `\`, "")
}

// CustomOption is a buyer-entered option on the product (add-on)
type CustomOption struct {
	OptionID  int                 `json:"option_id"`
	Title     string              `json:"title"`
	Type      string              `json:"type"`
	IsRequire bool                `json:"is_require"`
	SortOrder int                 `json:"sort_order"`
	Values    []CustomOptionValue `json:"values"`
}

// CustomOptionValue is one selectable value of a custom option
type CustomOptionValue struct {
	Title        string          `json:"title"`
	OptionTypeID int             `json:"option_type_id"`
	Price        decimal.Decimal `json:"price"`
	PriceType    string          `json:"price_type"`
}

// Quantity returns the stock quantity, zero when no stock item is present
func (p *SourceProduct) Quantity() decimal.Decimal {
	if p.ExtensionAttributes.StockItem == nil {
		return decimal.Zero
	}
	return p.ExtensionAttributes.StockItem.Qty
}

// ConfigurableOptions returns the configurable axes in source order
func (p *SourceProduct) ConfigurableOptions() []ConfigurableOption {
	return p.ExtensionAttributes.ConfigurableProductOptions
}

// ConfigurableLinks returns child entity ids in source order
func (p *SourceProduct) ConfigurableLinks() []int {
	return p.ExtensionAttributes.ConfigurableProductLinks
}

// CustomAttribute returns the value for code
func (p *SourceProduct) CustomAttribute(code string) (AttributeValue, bool) {
	for _, attr := range p.CustomAttributes {
		if attr.AttributeCode == code {
			return attr.Value, true
		}
	}
	return AttributeValue{}, false
}

// Validate checks the fields every pass relies on
func (p *SourceProduct) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidSKU
	}
	return nil
}
