// Package services содержит бизнес-логику учетных записей: регистрацию,
// вход, ротацию сессий и административное управление пользователями.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thoughts2action/thoughts2action/internal/identity"
	"github.com/thoughts2action/thoughts2action/internal/lib/password"
	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// IdentityClient определяет операции провайдера идентификации.
type IdentityClient interface {
	SignUp(ctx context.Context, email, pass, username string) (*identity.Session, error)
	SignIn(ctx context.Context, email, pass string) (*identity.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	AdminCreateUser(ctx context.Context, email, pass, username, role string) (*models.User, error)
}

// UserRepository определяет методы локального зеркала пользователей.
type UserRepository interface {
	UpsertUser(ctx context.Context, user models.User) error
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// AccountService сводит провайдера идентификации и локальное зеркало.
// Провайдер — источник истины; зеркало обновляется после каждой
// успешной операции и служит данным приложения (заметки, биллинг).
type AccountService struct {
	provider IdentityClient
	repo     UserRepository
	log      *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(provider IdentityClient, repo UserRepository, log *slog.Logger) *AccountService {
	return &AccountService{
		provider: provider,
		repo:     repo,
		log:      log,
	}
}

// Register регистрирует пользователя у провайдера и зеркалирует его локально.
func (s *AccountService) Register(ctx context.Context, email, pass, username string) (*identity.Session, error) {
	const op = "services.account.Register"

	session, err := s.provider.SignUp(ctx, email, pass, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.mirrorWithPassword(ctx, session.User, pass)
	return session, nil
}

// Login выполняет вход по паролю и обновляет локальное зеркало.
func (s *AccountService) Login(ctx context.Context, email, pass string) (*identity.Session, error) {
	const op = "services.account.Login"

	session, err := s.provider.SignIn(ctx, email, pass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.mirrorWithPassword(ctx, session.User, pass)
	return session, nil
}

// Refresh ротирует сессию по refresh-токену.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	const op = "services.account.Refresh"

	access, refresh, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return access, refresh, nil
}

// CreateAdmin создает подтвержденного администратора у провайдера
// и зеркалирует его локально.
func (s *AccountService) CreateAdmin(ctx context.Context, email, pass, username string) (*models.User, error) {
	const op = "services.account.CreateAdmin"

	user, err := s.provider.AdminCreateUser(ctx, email, pass, username, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.mirrorWithPassword(ctx, user, pass)
	return user, nil
}

// ListUsers возвращает пользователей из локального зеркала.
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "services.account.ListUsers"

	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// mirror обновляет локальное зеркало пользователя. Сбой зеркала не
// ломает операцию: провайдер уже выдал сессию.
func (s *AccountService) mirror(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}
	if err := s.repo.UpsertUser(ctx, *user); err != nil {
		s.log.Warn("failed to mirror user", sl.Err(err), slog.String("uid", user.UID))
	}
}

// mirrorWithPassword зеркалирует пользователя вместе с bcrypt-хэшем пароля.
// Пароль в открытом виде зеркало не покидает; сбой хэширования понижает
// операцию до обычного зеркала без хэша.
func (s *AccountService) mirrorWithPassword(ctx context.Context, user *models.User, pass string) {
	if user == nil {
		return
	}
	mirrored := *user
	hash, err := password.GetHash(pass)
	if err != nil {
		s.log.Warn("failed to hash mirrored password", sl.Err(err), slog.String("uid", user.UID))
	} else {
		mirrored.PasswordHash = hash
	}
	s.mirror(ctx, &mirrored)
}
