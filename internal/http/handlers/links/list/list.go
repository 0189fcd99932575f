// Package list отдаёт страницу пула ссылок с необязательным фильтром по user_id.
package list

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
	defaultPerPage = 10
	maxPerPage     = 100
)

type Service interface {
	List(ctx context.Context, filter models.LinkFilter, page, pageSize int) (models.Page[*models.Link], error)
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

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// ServeHTTP godoc
// @Summary Список ссылок
// @Description Свободные ссылки идут первыми, внутри группы по убыванию id. Номер страницы вне диапазона зажимается.
// @Tags Links
// @Produce  json
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Размер страницы (1..100)" default(10)
// @Param user_id query int false "Только ссылки пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /vpn/links [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.links.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := intParam(r, "page", 1)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	perPage, err := intParam(r, "per_page", defaultPerPage)
	if err != nil || perPage < 1 || perPage > maxPerPage {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(fmt.Sprintf("per_page must be between 1 and %d", maxPerPage)))
		return
	}

	var filter models.LinkFilter
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("user_id must be an integer"))
			return
		}
		filter.UserID = &userID
	}

	res, err := h.service.List(r.Context(), filter, page, perPage)
	if err != nil {
		log.Error("failed to list links", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}
