package integration

import (
	"github.com/erp/catalogsync/internal/domain/integration"
)

// ResolveArchetypes derives the variation archetypes of a product kind in
// source order.
//
//   - simple: exactly the default archetype
//   - configurable: one per option keyed by the normalized label, falling back
//     to default when there are no options
//   - grouped: one per associated link keyed by the normalized linked SKU
//   - bundle, virtual: none
func ResolveArchetypes(kind integration.ProductKind) []integration.Archetype {
	switch k := kind.(type) {
	case integration.SimpleProduct:
		return []integration.Archetype{integration.DefaultArchetype()}

	case integration.ConfigurableProduct:
		archetypes := make([]integration.Archetype, 0, len(k.Options))
		for _, opt := range k.Options {
			archetypes = append(archetypes, integration.Archetype{
				Key:               integration.NormalizeKey(opt.Label),
				SourceAttributeID: opt.AttributeID.String(),
			})
		}
		if len(archetypes) == 0 {
			return []integration.Archetype{integration.DefaultArchetype()}
		}
		return archetypes

	case integration.GroupedProduct:
		var archetypes []integration.Archetype
		for _, link := range k.Links {
			if link.LinkType != integration.LinkTypeAssociated {
				continue
			}
			archetypes = append(archetypes, integration.Archetype{
				Key: integration.NormalizeKey(link.TargetSKU()),
			})
		}
		return archetypes

	default:
		return nil
	}
}

// AttributeSetArchetypes turns remote attribute sets into candidate
// archetypes so configurable children on a different set still find a
// variation type.
func AttributeSetArchetypes(sets []integration.AttributeSet) []integration.Archetype {
	archetypes := make([]integration.Archetype, 0, len(sets))
	for _, set := range sets {
		if set.AttributeSetName == "" {
			continue
		}
		archetypes = append(archetypes, integration.Archetype{
			Key:            integration.AttributeSetKey(set.AttributeSetName),
			AttributeSetID: set.AttributeSetID,
		})
	}
	return archetypes
}

// archetypeForSet picks the first non-default archetype matching the
// attribute set, or the first archetype when none matches.
func archetypeForSet(archetypes []integration.Archetype, setID int) (integration.Archetype, bool) {
	for _, a := range archetypes {
		if !a.IsDefault() && a.MatchesAttributeSet(setID) {
			return a, true
		}
	}
	if len(archetypes) > 0 {
		return archetypes[0], true
	}
	return integration.Archetype{}, false
}
