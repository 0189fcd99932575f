package middlewarectx_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/middlewarectx"
)

type AuthorizerMock struct {
	mock.Mock
}

func (m *AuthorizerMock) Authorize(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSession(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		authHeader     string
		setup          func(m *AuthorizerMock)
		wantStatusCode int
		wantRole       string
	}{
		{
			name:           "no token",
			setup:          func(_ *AuthorizerMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "basic auth header is ignored",
			authHeader:     "Basic abc",
			setup:          func(_ *AuthorizerMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "invalid cookie token",
			cookie: "bad",
			setup: func(m *AuthorizerMock) {
				m.On("Authorize", "bad").Return("", errors.New("invalid token")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "valid cookie",
			cookie: "good",
			setup: func(m *AuthorizerMock) {
				m.On("Authorize", "good").Return("vpn", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantRole:       "vpn",
		},
		{
			name:       "valid bearer",
			authHeader: "Bearer good",
			setup: func(m *AuthorizerMock) {
				m.On("Authorize", "good").Return("codex", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantRole:       "codex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(AuthorizerMock)
			tt.setup(auth)

			var gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRole, _ = middlewarectx.RoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			h := middlewarectx.Session(auth, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/vpn/links", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middlewarectx.SessionCookie, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantRole, gotRole)
			auth.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth := new(AuthorizerMock)
	auth.On("Authorize", "vpn-token").Return("vpn", nil)
	auth.On("Authorize", "codex-token").Return("codex", nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	log := newNoopLogger()
	h := middlewarectx.Session(auth, log)(middlewarectx.RequireRole("vpn", log)(next))

	req := httptest.NewRequest(http.MethodGet, "/vpn/users", nil)
	req.Header.Set("Authorization", "Bearer codex-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)

	req = httptest.NewRequest(http.MethodGet, "/vpn/users", nil)
	req.Header.Set("Authorization", "Bearer vpn-token")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestRequireRole_WithoutSession(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RequireRole("vpn", newNoopLogger())(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vpn/users", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.001), 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(next)

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
