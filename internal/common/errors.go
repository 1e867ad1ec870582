// ABOUTME: Validation error shared by the account and note services
// ABOUTME: Carries the offending field and a message safe to return to callers

package common

import "errors"

// ValidationError reports a missing or malformed required field.
// Message is human-readable and is returned to the caller verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Required builds the ValidationError used for an empty required field.
func Required(field, label string) *ValidationError {
	return &ValidationError{Field: field, Message: label + " is required"}
}

// Invalid builds a ValidationError for a present but unusable value.
func Invalid(field, label string) *ValidationError {
	return &ValidationError{Field: field, Message: label + " is invalid"}
}

// AsValidation unwraps err into a ValidationError if it holds one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
