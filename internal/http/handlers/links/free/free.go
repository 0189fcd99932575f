// Package free отдаёт случайную выборку свободных ссылок без их выдачи.
package free

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

const (
	defaultCount = 10
	maxCount     = 100
)

type Service interface {
	FreeLinks(ctx context.Context, count int) ([]*models.Link, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Случайные свободные ссылки
// @Tags Links
// @Produce  json
// @Param count query int false "Сколько ссылок вернуть (1..100)" default(10)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /vpn/links/free [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.links.free"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count := defaultCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxCount {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(fmt.Sprintf("count must be between 1 and %d", maxCount)))
			return
		}
		count = v
	}

	links, err := h.service.FreeLinks(r.Context(), count)
	if err != nil {
		log.Error("failed to get free links", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if links == nil {
		links = []*models.Link{}
	}

	render.JSON(w, r, response.StatusOKWithData(links))
}
