package repository

import (
	"errors"
	"fmt"

	"edlink/internal/domain"

	"gorm.io/gorm"
)

// notFound maps gorm's missing-row error onto domain.ErrNotFound.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return err
}
