package identity

import (
	"time"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

// userPayload тело пользователя в ответах провайдера идентификации.
type userPayload struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	CreatedAt    time.Time         `json:"created_at"`
	UserMetadata map[string]string `json:"user_metadata"`
	AppMetadata  struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

// sessionResponse тело ответа на выдачу или ротацию сессии.
type sessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         userPayload `json:"user"`
}

// Session выданная провайдером пара токенов вместе с пользователем.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// signUpRequest тело запроса регистрации.
type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

// passwordGrantRequest тело запроса входа по паролю.
type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshGrantRequest тело запроса ротации сессии.
type refreshGrantRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// adminCreateUserRequest тело запроса административного создания пользователя.
type adminCreateUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
	AppMetadata  map[string]string `json:"app_metadata,omitempty"`
}

func (p userPayload) toUser() *models.User {
	role := p.AppMetadata.Role
	if role == "" {
		role = models.RoleUser
	}
	return &models.User{
		UID:       p.ID,
		Email:     p.Email,
		Username:  p.UserMetadata["username"],
		Role:      role,
		Metadata:  p.UserMetadata,
		CreatedAt: p.CreatedAt,
	}
}
