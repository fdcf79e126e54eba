package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		sentinel error
	}{
		{name: "not found by id", err: NewNotFoundError("grant", "g-1"), msg: `grant "g-1" not found`, sentinel: ErrNotFound},
		{name: "singleton not found", err: NewNotFoundError("swot analysis", ""), msg: "swot analysis not found", sentinel: ErrNotFound},
		{name: "conflict", err: NewConflictError("expert", "email already registered"), msg: "expert: email already registered", sentinel: ErrConflict},
		{
			name:     "conflict with details",
			err:      NewConflictErrorWithDetails("expert", "email already registered", "dana@example.com"),
			msg:      "expert: email already registered (dana@example.com)",
			sentinel: ErrConflict,
		},
		{name: "field validation", err: NewValidationError("email", "must be an email address"), msg: "invalid email: must be an email address", sentinel: ErrValidation},
		{name: "validation without field", err: NewValidationError("", "at least one keyword is required"), msg: "invalid input: at least one keyword is required", sentinel: ErrValidation},
		{name: "forbidden", err: NewForbiddenError("certificate", "guide not complete"), msg: "certificate is not allowed: guide not complete", sentinel: ErrForbidden},
		{name: "forbidden without reason", err: NewForbiddenError("name generation", ""), msg: "name generation is not allowed", sentinel: ErrForbidden},
		{name: "unavailable", err: NewUnavailableError("regulatory-feed", "circuit open"), msg: "regulatory-feed is unavailable: circuit open", sentinel: ErrUnavailable},
		{name: "unavailable without reason", err: NewUnavailableError("postgres", ""), msg: "postgres is unavailable", sentinel: ErrUnavailable},
	}

	sentinels := []error{ErrNotFound, ErrConflict, ErrValidation, ErrForbidden, ErrUnavailable}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.msg)

			wrapped := fmt.Errorf("loading state: %w", tt.err)
			for _, s := range sentinels {
				assert.Equal(t, s == tt.sentinel, errors.Is(wrapped, s), s.Error())
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("tool", "t-1")))
	assert.True(t, IsConflict(NewConflictError("draft", "exists")))
	assert.True(t, IsValidation(NewValidationError("text", "is required")))
	assert.True(t, IsForbidden(NewForbiddenError("export", "")))
	assert.True(t, IsUnavailable(NewUnavailableError("s3", "")))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsValidation(errors.New("validation failed")), "matching text is not enough")
}

func TestMalformedStateError(t *testing.T) {
	var syntax *json.SyntaxError
	cause := json.Unmarshal([]byte(`{"strengths":`), &map[string]any{})
	require.ErrorAs(t, cause, &syntax)

	err := fmt.Errorf("reading swot: %w", NewMalformedStateError("swotAnalysisData", cause))

	assert.Contains(t, err.Error(), `stored state "swotAnalysisData" is malformed`)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	require.ErrorAs(t, err, &syntax, "the decode error stays reachable")

	var malformed *MalformedStateError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "swotAnalysisData", malformed.Key)
}

func TestValidationError_Value(t *testing.T) {
	err := fmt.Errorf("adding item: %w", NewValidationErrorWithValue("priority", "must be high, medium or low", "urgent"))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)
	assert.Equal(t, "urgent", ve.Value)
}
