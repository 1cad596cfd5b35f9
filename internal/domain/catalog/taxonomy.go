package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/erp/catalogsync/internal/domain/shared"
)

// Vocabulary groups taxonomy terms
type Vocabulary struct {
	ID          string
	Name        string
	Description string
}

// Term is a taxonomy term. Name is unique within (vocabulary, parent set);
// root terms have the parent set [0].
type Term struct {
	ID           uint
	VocabularyID string
	Name         string
	ParentIDs    []uint
	SourceID     int
	Fields       Fields
}

// NewTerm creates an unsaved term under parents (nil or empty means root)
func NewTerm(vocabularyID, name string, parents []uint) (*Term, error) {
	if vocabularyID == "" {
		return nil, shared.NewDomainError("INVALID_TERM", "Vocabulary cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_TERM", "Term name cannot be empty")
	}
	return &Term{
		VocabularyID: vocabularyID,
		Name:         name,
		ParentIDs:    NormalizeParents(parents),
		Fields:       make(Fields),
	}, nil
}

// ParentKey is the canonical string form of the parent set
func (t *Term) ParentKey() string {
	return ParentKey(t.ParentIDs)
}

// NormalizeParents sorts and de-duplicates parent ids; empty becomes [0]
func NormalizeParents(parents []uint) []uint {
	if len(parents) == 0 {
		return []uint{0}
	}
	out := make([]uint, 0, len(parents))
	seen := make(map[uint]bool, len(parents))
	for _, p := range parents {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParentKey renders a parent set as "3,7"; the root set renders as "0"
func ParentKey(parents []uint) string {
	normalized := NormalizeParents(parents)
	parts := make([]string, len(normalized))
	for i, p := range normalized {
		parts[i] = strconv.FormatUint(uint64(p), 10)
	}
	return strings.Join(parts, ",")
}
