// Package billing реализует клиент платежного провайдера: проверку статуса
// платежной сессии и проверку подписи вебхука.
package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/thoughts2action/thoughts2action/internal/config"
)

// Client клиент HTTP API платежного провайдера.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient создает клиент платежного провайдера.
func NewClient(cfg config.Billing) *Client {
	return &Client{
		baseURL:    cfg.BillingBaseURL,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetCheckoutSession возвращает статус платежной сессии по ее идентификатору.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	const op = "billing.GetCheckoutSession"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

// VerifySignature проверяет HMAC-SHA256 подпись тела вебхука.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}
