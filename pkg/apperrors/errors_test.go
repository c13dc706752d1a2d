package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError(t *testing.T) {
	appErr := NewBadRequestError("bad input")

	t.Run("direct", func(t *testing.T) {
		got, ok := AsAppError(appErr)
		require.True(t, ok)
		assert.Same(t, appErr, got)
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", appErr)
		got, ok := AsAppError(wrapped)
		require.True(t, ok)
		assert.Same(t, appErr, got)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := AsAppError(errors.New("boom"))
		assert.False(t, ok)
	})
}

func TestWithErrorPreservesStructure(t *testing.T) {
	cause := errors.New("driver: connection reset")
	appErr := NewBadRequestError("failed to toggle file activation").WithError(cause)

	assert.Equal(t, CodeValidationFailed, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "connection reset")
}

func TestDomainFactories(t *testing.T) {
	t.Run("shop not found", func(t *testing.T) {
		err := ErrShopNotFound("shop-42")
		assert.Equal(t, CodeNotFound, err.Code)
		assert.Equal(t, http.StatusNotFound, err.HTTPCode)
		assert.Equal(t, map[string]string{"shop_id": "shop-42"}, err.Details)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		err := ErrFileCapacityExceeded("logo", 3, 5)
		assert.Equal(t, CodeLimitExceeded, err.Code)
		assert.Equal(t, map[string]int{"limit": 3, "attempted": 5}, err.Details)
		assert.Contains(t, err.Message, "3 logo")
	})

	t.Run("verification transition", func(t *testing.T) {
		err := ErrInvalidVerificationTransition("verified", "unverified")
		assert.Equal(t, CodeInvalidStatus, err.Code)
		assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	})

	t.Run("storage unavailable is retryable", func(t *testing.T) {
		err := ErrStorageUnavailable(errors.New("timeout"))
		assert.Equal(t, CodeStorageError, err.Code)
		assert.Equal(t, http.StatusServiceUnavailable, err.HTTPCode)
	})
}
