// Package logout завершает сессию оператора, удаляя cookie.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
)

type Handler struct {
	log          *slog.Logger
	cookieSecure bool
}

func New(log *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{
		log:          log,
		cookieSecure: cookieSecure,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info("logout", slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"logged_out": true}))
}
