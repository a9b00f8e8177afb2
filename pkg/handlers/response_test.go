package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"validation", apperrors.ErrValidation, http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("%w: name is required", apperrors.ErrValidation), http.StatusUnprocessableEntity},
		{"conflict", apperrors.ErrConflict, http.StatusConflict},
		{"last admin", apperrors.ErrLastAdmin, http.StatusConflict},
		{"policy violation", apperrors.ErrPolicyViolation, http.StatusConflict},
		{"system role", apperrors.ErrSystemRole, http.StatusConflict},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestServiceError(t *testing.T) {
	rec := httptest.NewRecorder()
	ServiceError(rec, zap.NewNop(), "save_failed", fmt.Errorf("%w: bad input", apperrors.ErrValidation))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"save_failed"`)
	assert.Contains(t, rec.Body.String(), "bad input")
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusCreated, ApiResponse{Success: true}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
