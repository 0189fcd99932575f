// Package middlewarectx содержит HTTP middleware проверки сессии оператора.
//
// Session достаёт токен из cookie vpn_session или заголовка Authorization: Bearer,
// проверяет его и кладёт роль в контекст. RequireRole пропускает дальше только
// операторов с нужной ролью. Оба middleware отвечают до обращения к хранилищу.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Role: ключ для роли оператора в контексте.
const Role Key = "role"

// SessionCookie: имя cookie с токеном сессии.
const SessionCookie = "vpn_session"

// Authorizer проверяет токен и возвращает роль оператора.
type Authorizer interface {
	Authorize(token string) (string, error)
}

// RoleFromContext возвращает роль оператора, положенную Session.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(Role).(string)
	return role, ok && role != ""
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Session возвращает middleware, который требует действующую сессию.
func Session(auth Authorizer, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Session"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := tokenFromRequest(r)
			if token == "" {
				log.Info("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			role, err := auth.Authorize(token)
			if err != nil {
				log.Info("invalid or expired session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			ctx := context.WithValue(r.Context(), Role, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole возвращает middleware, который пропускает только роль role.
// Должен стоять после Session.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := RoleFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if got != role {
				log.Info("role is not allowed",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", got),
					slog.String("required", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
