package catalog

import (
	"fmt"
	"strings"
)

// FieldStorage defines a field for an entity kind. At most one exists per
// (EntityKind, FieldName).
type FieldStorage struct {
	ID            uint
	EntityKind    EntityKind
	FieldName     string
	FieldKind     FieldKind
	AllowedValues map[string]string
	Cardinality   int
}

// FieldConfig attaches a storage to one bundle. At most one exists per
// (EntityKind, Bundle, FieldName).
type FieldConfig struct {
	ID         uint
	EntityKind EntityKind
	Bundle     string
	FieldName  string
	Label      string
	Required   bool
}

// FieldSpec is a request to make a field available on a bundle
type FieldSpec struct {
	EntityKind    EntityKind
	Bundle        string
	FieldName     string
	FieldKind     FieldKind
	AllowedValues []string
}

// Validate checks the spec before any repository call
func (s FieldSpec) Validate() error {
	if !s.EntityKind.IsValid() {
		return fmt.Errorf("invalid entity kind %q", s.EntityKind)
	}
	if strings.TrimSpace(s.Bundle) == "" {
		return fmt.Errorf("bundle is required for field %q", s.FieldName)
	}
	if strings.TrimSpace(s.FieldName) == "" {
		return fmt.Errorf("field name is required")
	}
	if s.FieldKind == "" {
		return fmt.Errorf("field kind is required for field %q", s.FieldName)
	}
	return nil
}

// Storage builds the storage definition; allowed values are keyed value=>value
func (s FieldSpec) Storage() *FieldStorage {
	storage := &FieldStorage{
		EntityKind:  s.EntityKind,
		FieldName:   s.FieldName,
		FieldKind:   s.FieldKind,
		Cardinality: 1,
	}
	if len(s.AllowedValues) > 0 {
		storage.AllowedValues = make(map[string]string, len(s.AllowedValues))
		for _, v := range s.AllowedValues {
			storage.AllowedValues[v] = v
		}
	}
	return storage
}

// Config builds the bundle attachment; the label is the field name
func (s FieldSpec) Config() *FieldConfig {
	return &FieldConfig{
		EntityKind: s.EntityKind,
		Bundle:     s.Bundle,
		FieldName:  s.FieldName,
		Label:      s.FieldName,
	}
}

// File is a managed file
type File struct {
	ID        uint
	URI       string
	Filename  string
	MimeType  string
	Size      int64
	Permanent bool
}

// PathAlias maps an internal path such as /product/12 to a public alias
type PathAlias struct {
	ID       uint
	Path     string
	Alias    string
	Langcode string
}

// ProductPath is the internal path of a product
func ProductPath(id uint) string {
	return fmt.Sprintf("/product/%d", id)
}

// NormalizeAlias gives an alias exactly one leading slash; values already
// starting with "/" are returned unchanged.
func NormalizeAlias(alias string) string {
	if alias == "" || strings.HasPrefix(alias, "/") {
		return alias
	}
	return "/" + alias
}
