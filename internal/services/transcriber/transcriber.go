// Package services содержит бизнес-логику расшифровки аудиозаметок.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

// maxTitleWords определяет, сколько первых слов расшифровки идет в заголовок.
const maxTitleWords = 8

// TranscriptionEngine превращает аудиопоток в текст.
type TranscriptionEngine interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// TranscriptRepository определяет методы хранилища для сохранения расшифровки.
type TranscriptRepository interface {
	CreateThought(ctx context.Context, thought models.Thought) (int, error)
}

// TranscriberService расшифровывает аудио и сохраняет результат заметкой.
type TranscriberService struct {
	engine TranscriptionEngine
	repo   TranscriptRepository
	log    *slog.Logger
}

// NewTranscriberService создает новый экземпляр TranscriberService.
func NewTranscriberService(engine TranscriptionEngine, repo TranscriptRepository, log *slog.Logger) *TranscriberService {
	return &TranscriberService{
		engine: engine,
		repo:   repo,
		log:    log,
	}
}

// Transcribe расшифровывает аудиофайл и создает заметку с источником transcribed.
// Возвращает ID заметки и текст расшифровки.
func (s *TranscriberService) Transcribe(ctx context.Context, user *models.User, filename string, audio io.Reader) (int, string, error) {
	const op = "services.transcriber.Transcribe"

	text, err := s.engine.Transcribe(ctx, filename, audio)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", fmt.Errorf("%s: transcription is empty", op)
	}

	id, err := s.repo.CreateThought(ctx, models.Thought{
		UserUID:  user.UID,
		Username: user.Username,
		Title:    titleFromText(text),
		Content:  text,
		Source:   models.SourceTranscribed,
	})
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	return id, text, nil
}

// titleFromText строит заголовок из первых слов расшифровки.
func titleFromText(text string) string {
	words := strings.Fields(text)
	if len(words) <= maxTitleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxTitleWords], " ") + "..."
}
