// Package refresh реализует HTTP-обработчик ротации сессии по refresh-токену.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
)

// Request — входные данные для ротации; токен может прийти и в cookie.
type Request struct {
	RefreshToken string `json:"refresh_token"`
}

// Service описывает интерфейс бизнес-логики ротации сессии.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

type Handler struct {
	log     *slog.Logger
	service Service
	cfg     config.IdentityProvider
}

func New(log *slog.Logger, service Service, cfg config.IdentityProvider) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cfg:     cfg,
	}
}

// ServeHTTP godoc
// @Summary Обновить сессию
// @Description Ротирует пару токенов по refresh-токену из тела запроса или cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request false "Refresh-токен"
// @Success 200 {object} map[string]any "Новая пара токенов"
// @Failure 401 {object} response.ErrorResponse "Невалидный refresh-токен"
// @Failure 503 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(h.cfg.RefreshCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		log.Error("refresh token missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("refresh token missing"))
		return
	}

	access, refresh, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		log.Error("session refresh failed", sl.Err(err))
		if errors.Is(err, authgate.ErrUpstreamUnavailable) {
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service temporarily unavailable"))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid refresh token"))
		return
	}

	cred := authgate.Credential{AccessToken: access, RefreshToken: refresh}
	cred.WriteCookies(w, h.cfg.AccessCookie, h.cfg.RefreshCookie)

	log.Info("session refreshed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
	}))
}
