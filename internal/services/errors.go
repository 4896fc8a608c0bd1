package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Failure classes. Operations wrap them with a user-facing detail, e.g.
// fmt.Errorf("%w: title is required", ErrValidation), and callers classify
// with errors.Is.
var (
	ErrValidation   = errors.New("invalid request")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("permission denied")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// Class names the failure class of err for metrics labels.
func Class(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

// lookupErr turns gorm.ErrRecordNotFound into ErrNotFound and wraps
// everything else as a storage fault.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s does not exist", ErrNotFound, what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
