package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости, например базы данных.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	log *slog.Logger
	db  Pinger
}

// New создает Handler. db может быть nil, тогда состояние базы не сообщается.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

// ServeHTTP всегда отвечает 200, пока процесс жив; состояние базы передаётся в теле.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	data := map[string]any{
		"status": "ok",
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.Warn("database ping failed", slog.String("op", op), sl.Err(err))
			data["database"] = "unavailable"
		} else {
			data["database"] = "ok"
		}
	}

	render.JSON(w, r, response.StatusOKWithData(data))
}
