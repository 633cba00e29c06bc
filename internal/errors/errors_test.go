package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "lead"}
		assert.Equal(t, "lead not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "campaign"}
		err2 := &NotFoundError{Entity: "campaign"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		assert.False(t, errors.Is(ErrCampaignNotFound, ErrLeadNotFound))
	})

	t.Run("wrapped errors are still detected", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", ErrLeadNotFound)
		assert.True(t, errors.Is(wrapped, ErrLeadNotFound))
		assert.True(t, IsNotFound(wrapped))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrCampaignNotFound))
		assert.False(t, IsNotFound(ErrCampaignHasLeads))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "email", Message: "invalid format"}
		assert.Equal(t, "validation error: email - invalid format", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("ValidationErrors joins fields", func(t *testing.T) {
		err := ValidationErrors{
			{Field: "sortBy", Message: "must be one of createdAt name startDate"},
			{Field: "page", Message: "must be at least 1"},
		}
		assert.Equal(t, "validation failed: sortBy: must be one of createdAt name startDate; page: must be at least 1", err.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		assert.True(t, IsValidation(NewValidationError("email", "invalid")))
		assert.True(t, IsValidation(fmt.Errorf("wrap: %w", ValidationErrors{{Field: "a", Message: "b"}})))
		assert.False(t, IsValidation(ErrLeadNotFound))
	})

	t.Run("ValidationDetails", func(t *testing.T) {
		details := ValidationDetails(ValidationErrors{{Field: "name", Message: "is required"}})
		assert.Len(t, details, 1)
		assert.Equal(t, "name", details[0].Field)

		single := ValidationDetails(ErrInvalidID)
		assert.Equal(t, []ValidationError{{Field: "id", Message: "must be a positive integer"}}, single)

		assert.Nil(t, ValidationDetails(errors.New("boom")))
	})
}

func TestBusinessRuleError(t *testing.T) {
	assert.True(t, IsBusinessRule(ErrCampaignHasLeads))
	assert.True(t, IsBusinessRule(fmt.Errorf("delete: %w", ErrCampaignHasLeads)))
	assert.False(t, IsBusinessRule(ErrCampaignNotFound))
	assert.Contains(t, ErrCampaignHasLeads.Error(), "existing leads")
}

func TestAuthenticationError(t *testing.T) {
	assert.True(t, IsAuthentication(ErrUnauthenticated))
	assert.True(t, IsAuthentication(NewAuthenticationError("token expired")))
	assert.False(t, IsAuthentication(ErrLeadNotFound))
}
