package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoughts2action/thoughts2action/internal/identity"
	"github.com/thoughts2action/thoughts2action/internal/lib/password"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) SignUp(ctx context.Context, email, pass, username string) (*identity.Session, error) {
	args := m.Called(ctx, email, pass, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}
func (m *ProviderMock) SignIn(ctx context.Context, email, pass string) (*identity.Session, error) {
	args := m.Called(ctx, email, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}
func (m *ProviderMock) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *ProviderMock) AdminCreateUser(ctx context.Context, email, pass, username, role string) (*models.User, error) {
	args := m.Called(ctx, email, pass, username, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) UpsertUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *UsersMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// mirrorOf матчит зеркалируемого пользователя: те же учетные данные,
// что у провайдера, плюс непустой bcrypt-хэш пароля.
func mirrorOf(want *models.User) any {
	return mock.MatchedBy(func(u models.User) bool {
		return u.UID == want.UID && u.Email == want.Email &&
			u.Username == want.Username && u.Role == want.Role &&
			u.PasswordHash != ""
	})
}

func TestAccountService_Register(t *testing.T) {
	session := &identity.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &models.User{UID: "uid-1", Email: "alice@example.com", Username: "alice", Role: models.RoleUser},
	}

	tests := []struct {
		name       string
		setupMocks func(p *ProviderMock, u *UsersMock)
		wantErr    bool
	}{
		{
			name: "успешная регистрация зеркалирует пользователя",
			setupMocks: func(p *ProviderMock, u *UsersMock) {
				p.On("SignUp", mock.Anything, "alice@example.com", "pass123", "alice").Return(session, nil).Once()
				u.On("UpsertUser", mock.Anything, mirrorOf(session.User)).Return(nil).Once()
			},
		},
		{
			name: "ошибка провайдера пробрасывается",
			setupMocks: func(p *ProviderMock, u *UsersMock) {
				p.On("SignUp", mock.Anything, "alice@example.com", "pass123", "alice").
					Return(nil, errors.New("email already registered")).Once()
			},
			wantErr: true,
		},
		{
			name: "сбой зеркала не ломает регистрацию",
			setupMocks: func(p *ProviderMock, u *UsersMock) {
				p.On("SignUp", mock.Anything, "alice@example.com", "pass123", "alice").Return(session, nil).Once()
				u.On("UpsertUser", mock.Anything, mirrorOf(session.User)).Return(errors.New("connection refused")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(ProviderMock)
			users := new(UsersMock)
			service := NewAccountService(provider, users, newNoopLogger())
			tt.setupMocks(provider, users)

			got, err := service.Register(context.Background(), "alice@example.com", "pass123", "alice")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "access", got.AccessToken)
			}
			provider.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestAccountService_MirrorStoresPasswordHash(t *testing.T) {
	session := &identity.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &models.User{UID: "uid-1", Email: "alice@example.com", Username: "alice", Role: models.RoleUser},
	}

	provider := new(ProviderMock)
	users := new(UsersMock)
	service := NewAccountService(provider, users, newNoopLogger())

	var mirrored models.User
	provider.On("SignUp", mock.Anything, "alice@example.com", "pass123", "alice").Return(session, nil).Once()
	users.On("UpsertUser", mock.Anything, mock.AnythingOfType("models.User")).
		Run(func(args mock.Arguments) { mirrored = args.Get(1).(models.User) }).
		Return(nil).Once()

	_, err := service.Register(context.Background(), "alice@example.com", "pass123", "alice")
	assert.NoError(t, err)

	// В зеркало уходит bcrypt-хэш, а не пароль в открытом виде.
	assert.NotEmpty(t, mirrored.PasswordHash)
	assert.NotEqual(t, "pass123", mirrored.PasswordHash)
	assert.NoError(t, password.CompareHash(mirrored.PasswordHash, "pass123"))
	// Структура пользователя от провайдера не мутируется.
	assert.Empty(t, session.User.PasswordHash)
}

func TestAccountService_Login(t *testing.T) {
	session := &identity.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &models.User{UID: "uid-1", Email: "alice@example.com", Username: "alice"},
	}

	provider := new(ProviderMock)
	users := new(UsersMock)
	service := NewAccountService(provider, users, newNoopLogger())

	provider.On("SignIn", mock.Anything, "alice@example.com", "pass123").Return(session, nil).Once()
	users.On("UpsertUser", mock.Anything, mirrorOf(session.User)).Return(nil).Once()

	got, err := service.Login(context.Background(), "alice@example.com", "pass123")
	assert.NoError(t, err)
	assert.Equal(t, "refresh", got.RefreshToken)
	provider.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestAccountService_Refresh(t *testing.T) {
	provider := new(ProviderMock)
	users := new(UsersMock)
	service := NewAccountService(provider, users, newNoopLogger())

	provider.On("RefreshSession", mock.Anything, "old-refresh").Return("new-access", "new-refresh", nil).Once()

	access, refresh, err := service.Refresh(context.Background(), "old-refresh")
	assert.NoError(t, err)
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
}

func TestAccountService_CreateAdmin(t *testing.T) {
	created := &models.User{UID: "uid-2", Email: "admin@example.com", Username: "root", Role: models.RoleAdmin}

	provider := new(ProviderMock)
	users := new(UsersMock)
	service := NewAccountService(provider, users, newNoopLogger())

	provider.On("AdminCreateUser", mock.Anything, "admin@example.com", "pass123", "root", models.RoleAdmin).
		Return(created, nil).Once()
	users.On("UpsertUser", mock.Anything, mirrorOf(created)).Return(nil).Once()

	got, err := service.CreateAdmin(context.Background(), "admin@example.com", "pass123", "root")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	provider.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestAccountService_ListUsers(t *testing.T) {
	list := []*models.User{{UID: "uid-1"}, {UID: "uid-2"}}

	provider := new(ProviderMock)
	users := new(UsersMock)
	service := NewAccountService(provider, users, newNoopLogger())

	users.On("ListUsers", mock.Anything, 20, 0).Return(list, nil).Once()

	got, err := service.ListUsers(context.Background(), 20, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}
