package core

import (
	"errors"
	"fmt"
)

// Error taxonomy for record operations. Validation errors are detected
// before any remote call; everything the document store reports that is
// not a missing record wraps ErrRemote.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("no active session")
	ErrForbidden       = errors.New("record owned by another user")
	ErrNotFound        = errors.New("record not found")
	ErrRemote          = errors.New("remote store failure")
)

// Field-level validation errors. Each wraps ErrValidation so callers can
// classify with errors.Is while surfacing the specific message inline.
var (
	ErrEmptyTitle       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: unknown record type", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive with at most two decimal places", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: date must be a valid YYYY-MM-DD calendar date", ErrValidation)
	ErrMissingDate      = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidFrequency = fmt.Errorf("%w: unknown frequency", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: unknown reminder status", ErrValidation)
	ErrTitleTooLong     = fmt.Errorf("%w: title too long (max 200 characters)", ErrValidation)
)
