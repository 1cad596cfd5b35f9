package persistence

import (
	"errors"
	"fmt"

	"github.com/erp/catalogsync/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors. Requires
// gorm.Config.TranslateError so drivers report duplicated keys uniformly.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", shared.ErrAlreadyExists, err)
	default:
		return err
	}
}
