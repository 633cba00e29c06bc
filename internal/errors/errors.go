package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents an error when an entity is not found or is not
// owned by the requesting user. Both cases are reported identically.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a single field-level validation failure
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors collects every field that failed validation in one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		if v.Field != "" {
			parts = append(parts, v.Field+": "+v.Message)
		} else {
			parts = append(parts, v.Message)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// BusinessRuleError represents a request that is well-formed but violates a domain rule
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrCampaignNotFound = &NotFoundError{Entity: "campaign"}
	ErrLeadNotFound     = &NotFoundError{Entity: "lead"}
)

// Business Logic Errors
var (
	ErrCampaignHasLeads = &BusinessRuleError{Message: "cannot delete campaign with existing leads; delete or reassign its leads first"}
	ErrInvalidID        = &ValidationError{Field: "id", Message: "must be a positive integer"}
)

// Authentication Errors
var (
	ErrUnauthenticated = &AuthenticationError{Message: "Unauthorized"}
	ErrInvalidSession  = &AuthenticationError{Message: "invalid or expired session"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError or ValidationErrors
func IsValidation(err error) bool {
	var validationErr *ValidationError
	var validationErrs ValidationErrors
	return errors.As(err, &validationErr) || errors.As(err, &validationErrs)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsBusinessRule checks if an error is a BusinessRuleError
func IsBusinessRule(err error) bool {
	var ruleErr *BusinessRuleError
	return errors.As(err, &ruleErr)
}

// ValidationDetails returns the field-level details carried by a validation error
func ValidationDetails(err error) []ValidationError {
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return []ValidationError{*validationErr}
	}
	return nil
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}
