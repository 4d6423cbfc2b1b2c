package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when something is not found
	ErrNotFound = errors.New("item not found")
	ErrConflict = errors.New("item already exists")
	// ErrPetReserved is returned when an approval loses to a reservation
	// already held by a different application for the same pet.
	ErrPetReserved = errors.New("pet is already reserved by another application")
)

// ValidationError marks malformed or missing input. A request failing with it
// should not be retried unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field string, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
