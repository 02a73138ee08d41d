package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithInternalKeepsOriginal(t *testing.T) {
	cause := errors.New("db down")
	err := ErrInternalServer.WithInternal(cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, ErrInternalServer.Code, err.Code)
	require.Nil(t, ErrInternalServer.Internal, "sentinel must not be mutated")
}

func TestWithDetailsCopiesSentinel(t *testing.T) {
	err := ErrForbidden.WithDetails(map[string]any{"missing_permissions": []string{"blogs:update"}})

	require.Equal(t, ErrForbidden.Code, err.Code)
	require.NotNil(t, err.Details)
	require.Nil(t, ErrForbidden.Details, "sentinel must not be mutated")
}

func TestFromErrorUnwrapsAppError(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), "something failed")

	appErr := FromError(wrapped)
	require.Equal(t, "INTERNAL_ERROR", appErr.Code)
	require.Equal(t, http.StatusInternalServerError, appErr.StatusCode)

	plain := FromError(errors.New("plain"))
	require.Equal(t, ErrInternalServer.Code, plain.Code)
}

func TestNewConflictStatus(t *testing.T) {
	err := NewConflict("permission name already exists")
	require.Equal(t, http.StatusConflict, err.StatusCode)
	require.Equal(t, "CONFLICT", err.Code)
}
