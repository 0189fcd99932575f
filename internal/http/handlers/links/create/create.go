// Package create реализует HTTP-обработчик добавления ссылки в пул.
//
// Handler принимает JSON с link_address и необязательным user_id, валидирует его,
// вызывает Service и возвращает созданную запись со статусом 201.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Handler управляет HTTP-запросами на создание ссылок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики ссылок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания ссылки.
type Service interface {
	Create(ctx context.Context, req models.DummyLink) (*models.Link, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить ссылку
// @Tags Links
// @Accept  json
// @Produce  json
// @Param request body models.DummyLink true "Новая ссылка"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный запрос или неизвестный пользователь"
// @Failure 409 {object} response.Response "Адрес уже существует"
// @Router /vpn/links [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.links.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLink
	if err := render.DecodeJSON(r.Body, &req); err != nil {
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

	link, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create link", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("link created", slog.Int64("id", link.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(link))
}
