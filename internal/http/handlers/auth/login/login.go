// Package login реализует HTTP-обработчик входа по паролю.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/identity"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
)

// Request — входные данные для входа
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, pass string) (*identity.Session, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	cfg      config.IdentityProvider
	validate *validator.Validate
}

func New(log *slog.Logger, service Service, cfg config.IdentityProvider) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Войти по паролю
// @Description Аутентифицирует пользователя у провайдера идентификации и выдает пару токенов в cookies.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные входа"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		switch {
		case errors.Is(err, authgate.ErrInvalidCredential):
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))
		case errors.Is(err, authgate.ErrUpstreamUnavailable):
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service temporarily unavailable"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
		}
		return
	}

	cred := authgate.Credential{AccessToken: session.AccessToken, RefreshToken: session.RefreshToken}
	cred.WriteCookies(w, h.cfg.AccessCookie, h.cfg.RefreshCookie)

	log.Info("user logged in", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
	}))
}
