package models

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
)

// VocabularyModel is the persistence model for vocabularies
type VocabularyModel struct {
	ID          string    `gorm:"type:varchar(100);primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VocabularyModel) TableName() string {
	return "taxonomy_vocabularies"
}

// ToDomain converts the persistence model to a domain Vocabulary.
func (m *VocabularyModel) ToDomain() *catalog.Vocabulary {
	return &catalog.Vocabulary{ID: m.ID, Name: m.Name, Description: m.Description}
}

// FromDomain populates the persistence model from a domain Vocabulary.
func (m *VocabularyModel) FromDomain(v *catalog.Vocabulary) {
	m.ID = v.ID
	m.Name = v.Name
	m.Description = v.Description
}

// TermModel is the persistence model for taxonomy terms.
// ParentKey is the canonical parent set ("0" for roots) so the natural key
// (vocabulary, name, parents) can carry a unique index.
type TermModel struct {
	ID           uint      `gorm:"primaryKey"`
	VocabularyID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_terms_natural,priority:1"`
	Name         string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_terms_natural,priority:2;index"`
	ParentKey    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_terms_natural,priority:3"`
	ParentIDs    string    `gorm:"column:parent_ids;type:text"`
	SourceID     int       `gorm:"index"`
	Fields       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TermModel) TableName() string {
	return "taxonomy_terms"
}

// ToDomain converts the persistence model to a domain Term.
func (m *TermModel) ToDomain() *catalog.Term {
	t := &catalog.Term{
		ID:           m.ID,
		VocabularyID: m.VocabularyID,
		Name:         m.Name,
		SourceID:     m.SourceID,
		Fields:       make(catalog.Fields),
	}
	decodeJSON(m.ParentIDs, &t.ParentIDs)
	t.ParentIDs = catalog.NormalizeParents(t.ParentIDs)
	decodeJSON(m.Fields, &t.Fields)
	return t
}

// FromDomain populates the persistence model from a domain Term.
func (m *TermModel) FromDomain(t *catalog.Term) {
	parents := catalog.NormalizeParents(t.ParentIDs)
	m.ID = t.ID
	m.VocabularyID = t.VocabularyID
	m.Name = t.Name
	m.ParentKey = catalog.ParentKey(parents)
	m.ParentIDs = encodeJSON(parents)
	m.SourceID = t.SourceID
	m.Fields = encodeJSON(t.Fields)
}
