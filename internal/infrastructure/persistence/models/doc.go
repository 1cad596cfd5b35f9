// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities are free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain/FromDomain convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: JSON helpers for multi-valued text columns
// - catalog.go: products, variations, their types, attributes, stores, add-on types
// - taxonomy.go: vocabularies and terms
// - schema.go: field storages, field configs, files, path aliases
// - stock.go: stock ledger
//
// Multi-valued columns (field values, parent sets, id lists) are stored as JSON text so
// the same models run on PostgreSQL and SQLite.
package models
