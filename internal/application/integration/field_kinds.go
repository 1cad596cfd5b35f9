package integration

import (
	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
)

// FieldKindFor infers the local field kind of a remote attribute from its
// frontend input, then its backend type
func FieldKindFor(attr *integration.SourceAttribute) catalog.FieldKind {
	if attr == nil {
		return catalog.FieldKindString
	}
	switch attr.FrontendInput {
	case integration.FrontendInputMediaImage, "image":
		return catalog.FieldKindImage
	case "gallery":
		return catalog.FieldKindFile
	case "textarea", "texteditor", "pagebuilder":
		return catalog.FieldKindTextLong
	case "select", "multiselect":
		return catalog.FieldKindListString
	case "boolean":
		return catalog.FieldKindBoolean
	case "date", "datetime":
		return catalog.FieldKindDatetime
	case "price", "weight":
		return catalog.FieldKindDecimal
	}
	switch attr.BackendType {
	case "text":
		return catalog.FieldKindTextLong
	case "int":
		return catalog.FieldKindInteger
	case "decimal":
		return catalog.FieldKindDecimal
	case "datetime":
		return catalog.FieldKindDatetime
	}
	return catalog.FieldKindString
}

// productFieldKind is FieldKindFor with the product codes that have
// dedicated routing
func productFieldKind(attr *integration.SourceAttribute) catalog.FieldKind {
	if attr != nil && attr.AttributeCode == integration.AttributeCodeCategoryIDs {
		return catalog.FieldKindEntityReference
	}
	return FieldKindFor(attr)
}
