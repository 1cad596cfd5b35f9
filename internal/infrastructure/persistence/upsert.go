package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertByKey inserts a model keyed by a natural string primary key, or
// updates every column except the key and created_at when it already exists.
func upsertByKey(ctx context.Context, db *gorm.DB, model any) error {
	return translateError(db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error)
}
