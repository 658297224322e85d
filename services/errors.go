package services

import (
	"errors"
	"fmt"
)

// Lifecycle preconditions. Callers map these to 404 and 409.
var (
	ErrLoanNotFound   = errors.New("loan not found")
	ErrLoanNotPending = errors.New("loan is not pending")
)

// ValidationError rejects bad input at the core instead of coercing it to
// zero at the presentation boundary, which would silently corrupt ledgers.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
