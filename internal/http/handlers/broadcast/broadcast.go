// Package broadcast реализует HTTP-обработчик массовой рассылки сообщения
// пользователям через Telegram-бота.
package broadcast

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

// Handler обрабатывает запросы на рассылку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает диспетчер рассылки.
type Service interface {
	Broadcast(ctx context.Context, userIDs []int64, text string) (*models.BroadcastResult, error)
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
// @Summary Разослать сообщение пользователям
// @Description Частичный отказ доставки не считается ошибкой: неудачи возвращаются в поле errors.
// @Tags Broadcast
// @Accept  json
// @Produce  json
// @Param request body models.DummyBroadcast true "Получатели и текст"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 503 {object} response.Response "Бот не настроен"
// @Router /vpn/send_message [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.broadcast"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBroadcast
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res, err := h.service.Broadcast(r.Context(), req.UserIDs, req.Text)
	if err != nil {
		log.Error("broadcast failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("broadcast finished",
		slog.Int("recipients", len(req.UserIDs)),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	render.JSON(w, r, response.StatusOKWithData(res))
}
