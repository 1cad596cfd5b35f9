package catalog

// EntityKind names a family of fieldable entities
type EntityKind string

const (
	KindProduct   EntityKind = "commerce_product"
	KindVariation EntityKind = "commerce_product_variation"
	KindTerm      EntityKind = "taxonomy_term"
	KindAddOn     EntityKind = "commerce_addon"
)

// IsValid returns true if the kind is known
func (k EntityKind) IsValid() bool {
	switch k {
	case KindProduct, KindVariation, KindTerm, KindAddOn:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (k EntityKind) String() string {
	return string(k)
}

// FieldKind is the storage type of a configurable field
type FieldKind string

const (
	FieldKindString          FieldKind = "string"
	FieldKindStringLong      FieldKind = "string_long"
	FieldKindTextLong        FieldKind = "text_long"
	FieldKindListString      FieldKind = "list_string"
	FieldKindInteger         FieldKind = "integer"
	FieldKindDecimal         FieldKind = "decimal"
	FieldKindBoolean         FieldKind = "boolean"
	FieldKindDatetime        FieldKind = "datetime"
	FieldKindImage           FieldKind = "image"
	FieldKindFile            FieldKind = "file"
	FieldKindEntityReference FieldKind = "entity_reference"
	FieldKindVideoEmbed      FieldKind = "video_embed_field"
)

// Well-known field names
const (
	FieldImage             = "image"
	FieldSmallImage        = "small_image"
	FieldThumbnail         = "thumbnail"
	FieldStock             = "field_stock"
	FieldDescription       = "description"
	FieldCategoryIDs       = "category_ids"
	FieldMediaGallery      = "field_media_gallery_entries"
	FieldVideoEmbed        = "field_video_embed"
	FieldPath              = "path"
	AttributeFieldPrefix   = "attribute_"
	FormatFullHTML         = "full_html"
	AddOnFieldBundle       = "field"
	AddOnOptionTextField   = "field_product_option_field"
	DefaultLangcode        = "en"
	DefaultOrderItemType   = "default"
	DefaultVocabularyLabel = "Magento categories"
)

// ImageFieldNames are provisioned on every variation bundle
var ImageFieldNames = []string{FieldImage, FieldSmallImage, FieldThumbnail}

// IsImageField reports whether name is one of the three variation image fields
func IsImageField(name string) bool {
	for _, n := range ImageFieldNames {
		if n == name {
			return true
		}
	}
	return false
}

// AttributeFieldName is the variation field referencing an attribute
func AttributeFieldName(attributeID string) string {
	return AttributeFieldPrefix + attributeID
}

// baseFields exist on every bundle of a kind without configuration
var baseFields = map[EntityKind][]string{
	KindProduct:   {"title", "sku", "type", "stores", "variations"},
	KindVariation: {"title", "sku", "type", "price", "product_id", FieldStock},
	KindTerm:      {"name", "vid", "parent", FieldDescription, "weight", FieldPath},
	KindAddOn:     {"label"},
}

// BaseFields returns the built-in field names of kind
func BaseFields(kind EntityKind) []string {
	out := make([]string, len(baseFields[kind]))
	copy(out, baseFields[kind])
	return out
}

// IsBaseField reports whether name is built into every bundle of kind
func IsBaseField(kind EntityKind, name string) bool {
	for _, f := range baseFields[kind] {
		if f == name {
			return true
		}
	}
	return false
}

// FieldItem is one value of a multi-valued field. Scalars use Value;
// references use TargetID; rich text sets Format.
type FieldItem struct {
	Value    string `json:"value,omitempty"`
	Format   string `json:"format,omitempty"`
	TargetID uint   `json:"target_id,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Title    string `json:"title,omitempty"`
}

// TextItem builds a scalar item
func TextItem(value string) FieldItem {
	return FieldItem{Value: value}
}

// ReferenceItem builds an entity or file reference
func ReferenceItem(id uint, label string) FieldItem {
	return FieldItem{TargetID: id, Alt: label, Title: label}
}

// Fields holds configurable field values by field name
type Fields map[string][]FieldItem

// Set replaces the values of a field
func (f *Fields) Set(name string, items ...FieldItem) {
	if *f == nil {
		*f = make(Fields)
	}
	(*f)[name] = items
}

// Append adds one value to a field
func (f *Fields) Append(name string, item FieldItem) {
	if *f == nil {
		*f = make(Fields)
	}
	(*f)[name] = append((*f)[name], item)
}

// Get returns the values of a field
func (f Fields) Get(name string) []FieldItem {
	return f[name]
}

// First returns the first value of a field
func (f Fields) First(name string) (FieldItem, bool) {
	items := f[name]
	if len(items) == 0 {
		return FieldItem{}, false
	}
	return items[0], true
}
