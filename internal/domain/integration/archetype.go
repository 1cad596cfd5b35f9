package integration

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultArchetypeKey is the archetype of single-variation products
const DefaultArchetypeKey = "default"

var nonKeyChars = regexp.MustCompile(`[^a-z0-9_]+`)

// NormalizeKey lower-cases s and replaces every run of characters outside
// [a-z0-9_] with a single underscore. Leading and trailing underscores are kept.
func NormalizeKey(s string) string {
	return nonKeyChars.ReplaceAllString(strings.ToLower(s), "_")
}

// AttributeSetKey derives an archetype key from an attribute set name.
// Only spaces are replaced here, matching how product types are keyed.
func AttributeSetKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Archetype is a derived variation classification. It is never persisted;
// the variation type and attribute created for it share its Key.
type Archetype struct {
	Key string
	// SourceAttributeID is the remote attribute carrying the option table
	// (configurable archetypes only).
	SourceAttributeID string
	// AttributeSetID is set for archetypes derived from remote attribute sets.
	AttributeSetID int
}

// DefaultArchetype returns the single-variation archetype
func DefaultArchetype() Archetype {
	return Archetype{Key: DefaultArchetypeKey}
}

// IsDefault reports whether this is the default archetype
func (a Archetype) IsDefault() bool {
	return a.Key == DefaultArchetypeKey
}

// HasSourceAttribute reports whether an option table backs this archetype
func (a Archetype) HasSourceAttribute() bool {
	return a.SourceAttributeID != ""
}

// MatchesAttributeSet reports whether the archetype stands for the given
// remote attribute set. Configurable archetypes match when their attribute id
// equals the set id, mirroring the loose comparison the catalog relies on.
func (a Archetype) MatchesAttributeSet(setID int) bool {
	if a.AttributeSetID != 0 {
		return a.AttributeSetID == setID
	}
	return a.SourceAttributeID != "" && a.SourceAttributeID == strconv.Itoa(setID)
}
