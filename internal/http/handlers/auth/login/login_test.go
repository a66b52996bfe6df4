package login

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/identity"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, pass string) (*identity.Session, error) {
	args := m.Called(ctx, email, pass)
	if res := args.Get(0); res != nil {
		return res.(*identity.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func testProviderConfig() config.IdentityProvider {
	return config.IdentityProvider{
		AccessCookie:  "t2a_access_token",
		RefreshCookie: "t2a_refresh_token",
	}
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	session := &identity.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &models.User{UID: "uid-1", Username: "alice"},
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		wantCookies    bool
	}{
		{
			name: "успешный вход выдает токены и cookies",
			body: `{"email":"alice@example.com","password":"pass123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "alice@example.com", "pass123").Return(session, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"access_token":"access-token"`,
			wantCookies:    true,
		},
		{
			name:           "некорректный JSON",
			body:           `not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "невалидный email не проходит валидацию",
			body:           `{"email":"not-an-email","password":"pass123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email can contain only a valid email`,
		},
		{
			name: "неверный пароль дает 401",
			body: `{"email":"alice@example.com","password":"wrong"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "alice@example.com", "wrong").
					Return(nil, authgate.ErrInvalidCredential)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid email or password"`,
		},
		{
			name: "недоступный провайдер дает 503",
			body: `{"email":"alice@example.com","password":"pass123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "alice@example.com", "pass123").
					Return(nil, authgate.ErrUpstreamUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"error":"service temporarily unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, testProviderConfig())

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			if tt.wantCookies {
				byName := map[string]string{}
				for _, c := range w.Result().Cookies() {
					byName[c.Name] = c.Value
				}
				assert.Equal(t, "access-token", byName["t2a_access_token"])
				assert.Equal(t, "refresh-token", byName["t2a_refresh_token"])
			}

			mockService.AssertExpectations(t)
		})
	}
}
