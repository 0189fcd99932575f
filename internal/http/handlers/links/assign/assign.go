// Package assign реализует выдачу свободных ссылок пользователю.
//
// Без тела запроса (или без поля count) выдаётся одна случайная ссылка,
// иначе ровно count ссылок либо ничего.
package assign

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Handler обрабатывает запросы на выдачу ссылок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает движок выдачи ссылок.
type Service interface {
	AssignOne(ctx context.Context, userID int64) (*models.Link, error)
	AssignMany(ctx context.Context, userID int64, count int) ([]*models.Link, error)
}

// Result: ответ на запрос выдачи. Assigned == false означает, что свободных ссылок не хватило.
type Result struct {
	Assigned bool           `json:"assigned"`
	Links    []*models.Link `json:"links"`
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выдать ссылки пользователю
// @Tags Links
// @Accept  json
// @Produce  json
// @Param user_id path int true "ID пользователя"
// @Param request body models.DummyAssign false "Количество ссылок"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный запрос или неизвестный пользователь"
// @Router /vpn/users/{user_id}/links [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.links.assign"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		log.Info("invalid user_id format", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user_id"))
		return
	}
	log = log.With(slog.Int64("user_id", userID))

	var req models.DummyAssign
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	var links []*models.Link
	if req.Count == nil {
		link, err := h.service.AssignOne(r.Context(), userID)
		if err != nil {
			log.Error("failed to assign link", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		if link != nil {
			links = []*models.Link{link}
		}
	} else {
		links, err = h.service.AssignMany(r.Context(), userID, *req.Count)
		if err != nil {
			log.Error("failed to assign links", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
	}

	if len(links) == 0 {
		log.Info("no free links to assign")
		render.JSON(w, r, response.StatusOKWithData(Result{Assigned: false, Links: []*models.Link{}}))
		return
	}

	log.Info("links assigned", slog.Int("count", len(links)))
	render.JSON(w, r, response.StatusOKWithData(Result{Assigned: true, Links: links}))
}
