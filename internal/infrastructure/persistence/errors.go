package persistence

import (
	"errors"
	"strings"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case isDuplicateKey(err):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// isDuplicateKey detects unique violations from postgres and sqlite,
// with or without gorm's TranslateError enabled.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
