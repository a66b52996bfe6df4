// Package llm реализует клиент провайдера языковой модели: суммаризацию текста
// в резюме со списком действий и транскрибацию аудио.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/thoughts2action/thoughts2action/internal/config"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// systemPrompt инструкция модели: вернуть строгий JSON с резюме и действиями.
const systemPrompt = `You are an assistant that turns free-form thoughts into actions.
Respond with a JSON object: {"summary": "...", "action_items": ["...", "..."]}.
Respond with JSON only, no extra text.`

// Client клиент HTTP API языковой модели.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создает клиент провайдера языковой модели.
func NewClient(cfg config.LLMProvider) *Client {
	return &Client{
		baseURL:    cfg.LLMBaseURL,
		apiKey:     cfg.LLMAPIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Summarize превращает текст заметки в резюме и список действий.
func (c *Client) Summarize(ctx context.Context, content string) (*models.ThoughtSummary, error) {
	const op = "llm.Summarize"

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: content},
		},
		Temperature: 0.2,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty response from model", op)
	}

	var summary models.ThoughtSummary
	raw := strings.TrimSpace(chat.Choices[0].Message.Content)
	// Модели иногда заворачивают JSON в markdown-ограждение
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &summary); err != nil {
		return nil, fmt.Errorf("%s: model returned malformed summary: %w", op, err)
	}
	return &summary, nil
}

// Transcribe отправляет аудиофайл на транскрибацию и возвращает текст.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	const op = "llm.Transcribe"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := writer.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var transcription transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&transcription); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return transcription.Text, nil
}
