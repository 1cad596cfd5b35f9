package integration

import "fmt"

// ProductKind is the closed set of remote product types. Each case carries
// only the data that matters for variation derivation.
type ProductKind interface {
	// TypeID returns the remote type classifier
	TypeID() string
	isProductKind()
}

// SimpleProduct owns exactly one variation
type SimpleProduct struct{}

// ConfigurableProduct varies along its options; children are linked by entity id
type ConfigurableProduct struct {
	Options []ConfigurableOption
}

// GroupedProduct bundles independently purchasable associated products
type GroupedProduct struct {
	Links []ProductLink
}

// BundleProduct owns no variation directly
type BundleProduct struct{}

// VirtualProduct owns no variation directly; virtual units appear as
// children of configurable products.
type VirtualProduct struct{}

func (SimpleProduct) TypeID() string       { return TypeSimple }
func (ConfigurableProduct) TypeID() string { return TypeConfigurable }
func (GroupedProduct) TypeID() string      { return TypeGrouped }
func (BundleProduct) TypeID() string       { return TypeBundle }
func (VirtualProduct) TypeID() string      { return TypeVirtual }

func (SimpleProduct) isProductKind()       {}
func (ConfigurableProduct) isProductKind() {}
func (GroupedProduct) isProductKind()      {}
func (BundleProduct) isProductKind()       {}
func (VirtualProduct) isProductKind()      {}

// ParseProductKind classifies a decoded product record.
func ParseProductKind(p *SourceProduct) (ProductKind, error) {
	switch p.TypeID {
	case TypeSimple:
		return SimpleProduct{}, nil
	case TypeConfigurable:
		return ConfigurableProduct{Options: p.ConfigurableOptions()}, nil
	case TypeGrouped:
		return GroupedProduct{Links: p.ProductLinks}, nil
	case TypeBundle:
		return BundleProduct{}, nil
	case TypeVirtual:
		return VirtualProduct{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProductType, p.TypeID)
	}
}
