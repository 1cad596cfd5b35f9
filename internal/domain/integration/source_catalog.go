package integration

// SourceCategory is a remote category; ChildrenData is populated by the
// hierarchy endpoint and by nested tree payloads.
type SourceCategory struct {
	ID               int               `json:"id"`
	ParentID         int               `json:"parent_id"`
	Name             string            `json:"name"`
	IsActive         bool              `json:"is_active"`
	Position         int               `json:"position"`
	Level            int               `json:"level"`
	ProductCount     int               `json:"product_count"`
	ChildrenData     []SourceCategory  `json:"children_data"`
	CustomAttributes []CustomAttribute `json:"custom_attributes"`
}

// SourceAttribute is the definition of a product or category attribute
type SourceAttribute struct {
	AttributeID          int               `json:"attribute_id"`
	AttributeCode        string            `json:"attribute_code"`
	FrontendInput        string            `json:"frontend_input"`
	BackendType          string            `json:"backend_type"`
	DefaultFrontendLabel string            `json:"default_frontend_label"`
	IsRequired           bool              `json:"is_required"`
	Options              []AttributeOption `json:"options"`
}

// Frontend inputs with dedicated handling
const (
	FrontendInputMediaImage = "media_image"
)

// IsMediaImage reports whether values of this attribute are media paths
func (a *SourceAttribute) IsMediaImage() bool {
	return a != nil && a.FrontendInput == FrontendInputMediaImage
}

// AttributeOption is one entry in an attribute's option table
type AttributeOption struct {
	Label string     `json:"label"`
	Value FlexString `json:"value"`
}

// IsSelectable excludes the blank placeholder option the remote catalog
// prepends to every select attribute.
func (o AttributeOption) IsSelectable() bool {
	return o.Value != "" && o.Value != "0"
}

// AttributeSet is a named collection of catalog fields
type AttributeSet struct {
	AttributeSetID   int    `json:"attribute_set_id"`
	AttributeSetName string `json:"attribute_set_name"`
	SortOrder        int    `json:"sort_order"`
	EntityTypeID     int    `json:"entity_type_id"`
}
