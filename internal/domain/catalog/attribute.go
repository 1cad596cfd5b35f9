package catalog

import (
	"strings"

	"github.com/erp/catalogsync/internal/domain/shared"
)

// Attribute is a product attribute; its id is the archetype key. Attributes
// are shared by every product that uses the key.
type Attribute struct {
	ID    string
	Label string
}

// NewAttribute creates an attribute
func NewAttribute(id, label string) (*Attribute, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE", "Attribute id cannot be empty")
	}
	if label == "" {
		label = id
	}
	return &Attribute{ID: id, Label: label}, nil
}

// AttributeValue is one allowed value of an attribute. The natural key is
// (AttributeID, SourceValue).
type AttributeValue struct {
	ID          uint
	AttributeID string
	SourceValue string
	Name        string
	Weight      int
}

// NewAttributeValue creates an unsaved attribute value
func NewAttributeValue(attributeID, sourceValue, name string) (*AttributeValue, error) {
	if attributeID == "" {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", "Attribute id cannot be empty")
	}
	if sourceValue == "" {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", "Source value cannot be empty")
	}
	return &AttributeValue{
		AttributeID: attributeID,
		SourceValue: sourceValue,
		Name:        name,
		Weight:      1,
	}, nil
}

// AddOnType is a buyer-input option type attached to products
type AddOnType struct {
	ID    string
	Label string
}
