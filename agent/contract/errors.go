package contract

import "errors"

// Invalid selections and unrecognized actions are not errors: the dialogue
// engine answers them with a notice and keeps the owner's step.
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidDate         = errors.New("invalid calendar date")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrAppointmentNotFound = errors.New("appointment not found")
)
