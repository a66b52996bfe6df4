// Package dashboard реализует страничный HTTP-обработчик рабочего стола.
//
// Ресурс закрыт страничным гейтом: сюда попадает только аутентифицированный
// пользователь с активной подпиской, остальных гейт уводит редиректом.
package dashboard

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/thoughts2action/thoughts2action/internal/http/middlewarectx"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// Service описывает интерфейс бизнес-логики списка заметок.
type Service interface {
	List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Thought, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
	tmpl    *template.Template
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Thoughts2Action</title></head>
<body>
<h1>Welcome, {{.Username}}</h1>
<ul>
{{range .Thoughts}}<li><strong>{{.Title}}</strong>{{if .Summary}} &mdash; {{.Summary}}{{end}}</li>
{{end}}</ul>
</body>
</html>
`))

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tmpl:    dashboardTemplate,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	thoughts, err := h.service.List(r.Context(), user, 20, 0)
	if err != nil {
		log.Error("failed to list thoughts", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, map[string]any{
		"Username": user.Username,
		"Thoughts": thoughts,
	}); err != nil {
		log.Error("failed to render dashboard", sl.Err(err))
	}
}
