// Package list отдаёт страницу пользователей VPN с поиском по подстроке user_id.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// PageSize фиксированный размер страницы пользователей.
const PageSize = 10

type Service interface {
	List(ctx context.Context, search string, page, pageSize int) (models.Page[*models.User], error)
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
// @Summary Список пользователей
// @Tags Users
// @Produce  json
// @Param page query int false "Номер страницы" default(1)
// @Param search query string false "Подстрока user_id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /vpn/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("page must be an integer"))
			return
		}
		page = v
	}
	search := r.URL.Query().Get("search")

	res, err := h.service.List(r.Context(), search, page, PageSize)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}
