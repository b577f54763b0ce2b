package persistence

import (
	"errors"

	"github.com/agrotrade/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps storage errors onto the domain taxonomy. Domain errors
// pass through unchanged; anything unrecognised becomes a persistence failure
// that keeps the driver error as its cause.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrInvalidState.WithMessage("Record is referenced by other records")
	default:
		return shared.PersistenceFailure(op, err)
	}
}
