package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the base error for rejected input. Field-specific
	// detail travels in a FieldError wrapping it.
	ErrValidation = errors.New("validation failed")

	// ErrSlotTaken means the requested (doctor, date, time) is already held
	// by a non-terminal appointment. Raised both by the local pre-check and
	// by the store's uniqueness guard; callers cannot tell them apart.
	ErrSlotTaken = errors.New("time slot is already booked for this doctor")

	// ErrInvalidTransition means the appointment's current status does not
	// permit the requested lifecycle change.
	ErrInvalidTransition = errors.New("appointment status does not allow this operation")

	// ErrNotFound means the appointment, doctor or patient does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps network/database failures. Safe to retry;
	// no local state has been mutated.
	ErrStoreUnavailable = errors.New("appointment store unavailable")
)

// FieldError reports a validation failure on a specific input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func fieldErr(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
