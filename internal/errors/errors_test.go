package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pejman93/echopulse/internal/domain"
)

func TestError_Error(t *testing.T) {
	plain := ValidationError("score out of range")
	assert.Equal(t, "validation: score out of range", plain.Error())

	cause := errors.New("dial tcp: connection refused")
	wrapped := UnavailableError("redis unreachable", cause)
	assert.Equal(t, "unavailable: redis unreachable: dial tcp: connection refused", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := InternalError("store failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("outer: %w", err), cause)
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		status  int
	}{
		{TypeValidation, http.StatusBadRequest},
		{TypeNotFound, http.StatusNotFound},
		{TypeUnavailable, http.StatusServiceUnavailable},
		{TypeInternal, http.StatusInternalServerError},
		{ErrorType("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			err := &Error{Type: tt.errType, Message: "x"}
			assert.Equal(t, tt.status, err.HTTPStatus())
		})
	}
}

func TestError_WithContext(t *testing.T) {
	err := ValidationError("bad input").
		WithContext("field", "score").
		WithContext("value", 2.5)

	assert.Equal(t, "score", err.Context["field"])
	assert.Equal(t, 2.5, err.Context["value"])
}

func TestError_ToResponse(t *testing.T) {
	err := NotFoundError("speaker not found").WithContext("speaker_id", "s1")

	resp := err.ToResponse()
	assert.Equal(t, "speaker not found", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
	assert.Equal(t, "s1", resp.Context["speaker_id"])
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("already structured", func(t *testing.T) {
		original := ValidationError("bad")
		assert.Same(t, original, AsStructuredError(original))
	})

	t.Run("wrapped structured", func(t *testing.T) {
		original := NotFoundError("gone")
		got := AsStructuredError(fmt.Errorf("handler: %w", original))
		assert.Same(t, original, got)
	})

	t.Run("domain sentinels", func(t *testing.T) {
		tests := []struct {
			err     error
			errType ErrorType
		}{
			{domain.ErrNoSources, TypeValidation},
			{domain.ErrUnknownStrategy, TypeValidation},
			{domain.ErrUnknownCategory, TypeValidation},
			{domain.ErrSpeakerNotFound, TypeNotFound},
		}
		for _, tt := range tests {
			got := AsStructuredError(fmt.Errorf("op: %w", tt.err))
			require.NotNil(t, got)
			assert.Equal(t, tt.errType, got.Type)
		}
	})

	t.Run("unknown error", func(t *testing.T) {
		cause := errors.New("surprise")
		got := AsStructuredError(cause)
		assert.Equal(t, TypeInternal, got.Type)
		assert.Equal(t, "internal server error", got.Message)
		assert.ErrorIs(t, got, cause)
	})
}
