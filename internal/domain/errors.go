package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound                = errors.New("resource not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserInactive            = errors.New("user is inactive")
	ErrNumberGeneration        = errors.New("document number generation failed")
	ErrConflict                = errors.New("document was modified by another request")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrQuotationNotAccepted    = errors.New("quotation must be accepted before conversion")
	ErrQuotationConverted      = errors.New("quotation has already been converted to an invoice")
	ErrInvalidPaymentAmount    = errors.New("payment amount must be positive")
	ErrInvoiceNotPayable       = errors.New("invoice cannot accept payments in its current status")
	ErrSettingsNotConfigured   = errors.New("business settings have not been configured")
)

// FieldError describes a single violated field in a request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries one entry per violated field so callers can surface
// every problem at once rather than just the first.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
