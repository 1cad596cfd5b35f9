package models

import (
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
)

// FieldStorageModel is the persistence model for field storages
type FieldStorageModel struct {
	ID            uint               `gorm:"primaryKey"`
	EntityKind    catalog.EntityKind `gorm:"type:varchar(64);not null;uniqueIndex:idx_field_storages_natural,priority:1"`
	FieldName     string             `gorm:"type:varchar(128);not null;uniqueIndex:idx_field_storages_natural,priority:2"`
	FieldKind     catalog.FieldKind  `gorm:"type:varchar(64);not null"`
	AllowedValues string             `gorm:"type:text"`
	Cardinality   int                `gorm:"not null;default:1"`
	CreatedAt     time.Time          `gorm:"not null"`
	UpdatedAt     time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FieldStorageModel) TableName() string {
	return "field_storages"
}

// ToDomain converts the persistence model to a domain FieldStorage.
func (m *FieldStorageModel) ToDomain() *catalog.FieldStorage {
	s := &catalog.FieldStorage{
		ID:          m.ID,
		EntityKind:  m.EntityKind,
		FieldName:   m.FieldName,
		FieldKind:   m.FieldKind,
		Cardinality: m.Cardinality,
	}
	decodeJSON(m.AllowedValues, &s.AllowedValues)
	return s
}

// FromDomain populates the persistence model from a domain FieldStorage.
func (m *FieldStorageModel) FromDomain(s *catalog.FieldStorage) {
	m.ID = s.ID
	m.EntityKind = s.EntityKind
	m.FieldName = s.FieldName
	m.FieldKind = s.FieldKind
	m.AllowedValues = encodeJSON(s.AllowedValues)
	m.Cardinality = s.Cardinality
	if m.Cardinality == 0 {
		m.Cardinality = 1
	}
}

// FieldConfigModel is the persistence model for field configurations
type FieldConfigModel struct {
	ID         uint               `gorm:"primaryKey"`
	EntityKind catalog.EntityKind `gorm:"type:varchar(64);not null;uniqueIndex:idx_field_configs_natural,priority:1"`
	Bundle     string             `gorm:"type:varchar(128);not null;uniqueIndex:idx_field_configs_natural,priority:2"`
	FieldName  string             `gorm:"type:varchar(128);not null;uniqueIndex:idx_field_configs_natural,priority:3"`
	Label      string             `gorm:"type:varchar(255);not null"`
	Required   bool               `gorm:"not null;default:false"`
	CreatedAt  time.Time          `gorm:"not null"`
	UpdatedAt  time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FieldConfigModel) TableName() string {
	return "field_configs"
}

// ToDomain converts the persistence model to a domain FieldConfig.
func (m *FieldConfigModel) ToDomain() *catalog.FieldConfig {
	return &catalog.FieldConfig{
		ID:         m.ID,
		EntityKind: m.EntityKind,
		Bundle:     m.Bundle,
		FieldName:  m.FieldName,
		Label:      m.Label,
		Required:   m.Required,
	}
}

// FromDomain populates the persistence model from a domain FieldConfig.
func (m *FieldConfigModel) FromDomain(c *catalog.FieldConfig) {
	m.ID = c.ID
	m.EntityKind = c.EntityKind
	m.Bundle = c.Bundle
	m.FieldName = c.FieldName
	m.Label = c.Label
	m.Required = c.Required
}

// FileModel is the persistence model for managed files
type FileModel struct {
	ID        uint      `gorm:"primaryKey"`
	URI       string    `gorm:"column:uri;type:varchar(512);not null;uniqueIndex:idx_files_uri"`
	Filename  string    `gorm:"type:varchar(255);not null"`
	MimeType  string    `gorm:"type:varchar(100)"`
	Size      int64     `gorm:"not null;default:0"`
	Permanent bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FileModel) TableName() string {
	return "managed_files"
}

// ToDomain converts the persistence model to a domain File.
func (m *FileModel) ToDomain() *catalog.File {
	return &catalog.File{
		ID:        m.ID,
		URI:       m.URI,
		Filename:  m.Filename,
		MimeType:  m.MimeType,
		Size:      m.Size,
		Permanent: m.Permanent,
	}
}

// FromDomain populates the persistence model from a domain File.
func (m *FileModel) FromDomain(f *catalog.File) {
	m.ID = f.ID
	m.URI = f.URI
	m.Filename = f.Filename
	m.MimeType = f.MimeType
	m.Size = f.Size
	m.Permanent = f.Permanent
}

// PathAliasModel is the persistence model for URL aliases
type PathAliasModel struct {
	ID        uint      `gorm:"primaryKey"`
	Path      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_path_aliases_path,priority:1"`
	Alias     string    `gorm:"type:varchar(255);not null;index"`
	Langcode  string    `gorm:"type:varchar(12);not null;uniqueIndex:idx_path_aliases_path,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PathAliasModel) TableName() string {
	return "path_aliases"
}

// ToDomain converts the persistence model to a domain PathAlias.
func (m *PathAliasModel) ToDomain() *catalog.PathAlias {
	return &catalog.PathAlias{ID: m.ID, Path: m.Path, Alias: m.Alias, Langcode: m.Langcode}
}

// FromDomain populates the persistence model from a domain PathAlias.
func (m *PathAliasModel) FromDomain(a *catalog.PathAlias) {
	m.ID = a.ID
	m.Path = a.Path
	m.Alias = a.Alias
	m.Langcode = a.Langcode
}
