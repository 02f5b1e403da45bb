// Package apperr defines the error taxonomy shared by the scheduling API.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or logically inconsistent caller input.
// It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidation creates a validation error for a field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError reports an identity that cannot be resolved or does not
// match the supplied tenant.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// IntegrationNotFoundError reports a tenant with no connected calendar.
type IntegrationNotFoundError struct {
	TenantID string
}

func (e *IntegrationNotFoundError) Error() string {
	return fmt.Sprintf("no calendar integration for tenant %s", e.TenantID)
}

// ProviderError reports a failed upstream calendar-provider call. The upstream
// error is attached; retry policy is left to the caller.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("calendar provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProvider wraps an upstream error with the failed operation name.
func WrapProvider(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Err: err}
}

// IsValidation checks if error is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthorization checks if error is an authorization error.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsIntegrationNotFound checks if error is an integration-not-found error.
func IsIntegrationNotFound(err error) bool {
	var ne *IntegrationNotFoundError
	return errors.As(err, &ne)
}

// IsProvider checks if error is an upstream provider error.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
