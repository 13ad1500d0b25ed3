package persistence

import (
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors.
// notFound is returned for gorm.ErrRecordNotFound, conflict for unique violations.
func translateError(err error, notFound, conflict *shared.DomainError, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflict != nil:
		return conflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
