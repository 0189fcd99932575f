// Package login реализует HTTP-обработчик входа оператора.
//
// Принимает логин и пароль в JSON или form-urlencoded, проверяет их через Service
// и при успехе выставляет cookie сессии и возвращает роль оператора и токен.
package login

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/vpn-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/vpn-dashboard/internal/http/response"
	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/vpn-dashboard/internal/models"
)

// Request: структура входных данных для входа.
type Request struct {
	Username string `json:"username" form:"username" validate:"required,max=128"`
	Password string `json:"password" form:"password" validate:"required,max=256"`
}

// Service описывает интерфейс проверки учётных данных.
type Service interface {
	Login(login, password string) (role string, token string, err error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log          *slog.Logger        // Логгер для записи операций и ошибок
	service      Service             // Проверка учётных данных
	validate     *validator.Validate // Валидатор для проверки входных данных
	cookieSecure bool
	sessionTTL   time.Duration
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookieSecure bool, sessionTTL time.Duration) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		validate:     validator.New(),
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// ServeHTTP godoc
// @Summary Вход оператора
// @Description Проверяет логин и пароль, выставляет cookie vpn_session и возвращает роль.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные оператора"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.Response "Некорректное тело запроса"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 429 {object} response.Response "Слишком много попыток"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	role, token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("invalid credentials")
		} else {
			log.Error("login failed", sl.Err(err))
		}
		response.RenderError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login success", slog.String("role", role))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"role":  role,
		"token": token,
	}))
}
