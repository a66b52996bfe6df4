// Package identity реализует клиент внешнего провайдера идентификации.
//
// Клиент покрывает контракт гейта (LoadIdentity, RefreshSession) и операции
// учетных записей: регистрацию, вход по паролю и административное создание
// пользователей. Все ошибки внешних вызовов сводятся к таксономии гейта:
// authgate.ErrInvalidCredential и authgate.ErrUpstreamUnavailable.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/thoughts2action/thoughts2action/internal/authgate"
	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// Client клиент HTTP API провайдера идентификации.
type Client struct {
	baseURL    string
	apiKey     string
	verifier   *tokenVerifier
	httpClient *http.Client
}

// NewClient создает клиент провайдера идентификации из конфигурации.
func NewClient(cfg config.IdentityProvider) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		verifier:   newTokenVerifier(cfg.JWTSecret),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do выполняет запрос и сводит ошибки к таксономии гейта: транспортные сбои и
// 5xx — upstream unavailable, 401/403 — invalid credential.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", authgate.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: provider status %s", authgate.ErrInvalidCredential, resp.Status)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: provider status %s", authgate.ErrUpstreamUnavailable, resp.Status)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("identity provider: unexpected status %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("identity provider: decode response: %w", err)
		}
	}
	return nil
}

// LoadIdentity загружает идентичность по access-токену.
// Ровно один удаленный вызов; мусорный или истекший токен отбрасывается
// локальной проверкой подписи без обращения к провайдеру.
func (c *Client) LoadIdentity(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "identity.LoadIdentity"

	if err := c.verifier.Verify(accessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var payload userPayload
	if err := c.do(req, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payload.toUser(), nil
}

// RefreshSession ротирует сессию по refresh-токену и возвращает новую пару.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	const op = "identity.RefreshSession"

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token",
		refreshGrantRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	var session sessionResponse
	if err := c.do(req, &session); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return session.AccessToken, session.RefreshToken, nil
}

// SignUp регистрирует пользователя у провайдера и возвращает выданную сессию.
func (c *Client) SignUp(ctx context.Context, email, pass, username string) (*Session, error) {
	const op = "identity.SignUp"

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/signup", signUpRequest{
		Email:    email,
		Password: pass,
		Data:     map[string]string{"username": username},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var session sessionResponse
	if err := c.do(req, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         session.User.toUser(),
	}, nil
}

// SignIn выполняет вход по паролю и возвращает выданную сессию.
func (c *Client) SignIn(ctx context.Context, email, pass string) (*Session, error) {
	const op = "identity.SignIn"

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password",
		passwordGrantRequest{Email: email, Password: pass})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var session sessionResponse
	if err := c.do(req, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         session.User.toUser(),
	}, nil
}

// AdminCreateUser создает подтвержденного пользователя с заданной ролью.
// Вызывается только из административных обработчиков; сервисный ключ
// провайдера передается как bearer.
func (c *Client) AdminCreateUser(ctx context.Context, email, pass, username, role string) (*models.User, error) {
	const op = "identity.AdminCreateUser"

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", adminCreateUserRequest{
		Email:        email,
		Password:     pass,
		EmailConfirm: true,
		UserMetadata: map[string]string{"username": username},
		AppMetadata:  map[string]string{"role": role},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var payload userPayload
	if err := c.do(req, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := payload.toUser()
	user.Role = role
	return user, nil
}
