// Package createadmin реализует HTTP-обработчик создания администратора.
//
// Ресурс закрыт административным гейтом: провижининг новых администраторов
// доступен только действующему администратору.
package createadmin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/thoughts2action/thoughts2action/internal/http/response"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// Request — входные данные для создания администратора
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// Service описывает интерфейс бизнес-логики создания администратора.
type Service interface {
	CreateAdmin(ctx context.Context, email, pass, username string) (*models.User, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать администратора
// @Description Создает подтвержденную учетную запись администратора у провайдера идентификации.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового администратора"
// @Success 200 {object} map[string]any "Созданный администратор"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.createadmin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
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

	user, err := h.service.CreateAdmin(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		log.Error("failed to create admin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create admin"))
		return
	}

	log.Info("admin created", slog.String("uid", user.UID), slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(user))
}
