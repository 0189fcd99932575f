package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("storage.DeleteLink: %w", models.ErrNotFound), http.StatusNotFound, "not found"},
		{"duplicate", fmt.Errorf("op: %w", models.ErrDuplicateAddress), http.StatusConflict, "link address already exists"},
		{"unknown user", models.ErrUnknownUser, http.StatusBadRequest, "unknown user"},
		{"invalid input", fmt.Errorf("links.Create: %w: link_address is required", models.ErrInvalidInput), http.StatusBadRequest, "link_address is required"},
		{"invalid credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"bot not configured", fmt.Errorf("op: %w: no token", models.ErrExternalServiceUnavailable), http.StatusServiceUnavailable, "external service unavailable"},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := StatusFromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	status := RenderError(w, r, models.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"not found"}`, w.Body.String())
}

func TestValidationError(t *testing.T) {
	type req struct {
		Text    string  `validate:"required,max=5"`
		UserIDs []int64 `validate:"required,min=1,dive,ne=0"`
	}

	err := validator.New().Struct(req{Text: "toolong", UserIDs: []int64{1, 0}})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Text must be at most 5")
	assert.Contains(t, resp.Error, "must not be 0")
}
