// Package services содержит бизнес-логику суммаризации заметок.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
	thoughtservice "github.com/thoughts2action/thoughts2action/internal/services/thought"
)

// SummaryEngine превращает текст заметки в резюме и список действий.
type SummaryEngine interface {
	Summarize(ctx context.Context, content string) (*models.ThoughtSummary, error)
}

// SummaryRepository определяет методы хранилища, нужные суммаризации.
type SummaryRepository interface {
	ReadThought(ctx context.Context, id int) (*models.Thought, error)
	SetThoughtSummary(ctx context.Context, id int, summary string, actionItems []string) error
}

// Cache определяет методы кеша, нужные для инвалидации заметки.
type Cache interface {
	Invalidate(key string) error
}

// SummarizerService получает резюме заметки у LLM-провайдера и сохраняет его.
type SummarizerService struct {
	engine SummaryEngine
	repo   SummaryRepository
	cache  Cache
	log    *slog.Logger
}

// NewSummarizerService создает новый экземпляр SummarizerService.
func NewSummarizerService(engine SummaryEngine, repo SummaryRepository, cache Cache, log *slog.Logger) *SummarizerService {
	return &SummarizerService{
		engine: engine,
		repo:   repo,
		cache:  cache,
		log:    log,
	}
}

// Summarize получает резюме заметки и сохраняет его в хранилище.
// Чужую заметку может суммаризировать только администратор.
func (s *SummarizerService) Summarize(ctx context.Context, user *models.User, id int) (*models.ThoughtSummary, error) {
	const op = "services.summarizer.Summarize"

	thought, err := s.repo.ReadThought(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsAdmin() && thought.UserUID != user.UID {
		return nil, thoughtservice.ErrNotOwner
	}

	summary, err := s.engine.Summarize(ctx, thought.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetThoughtSummary(ctx, id, summary.Summary, summary.ActionItems); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(fmt.Sprintf("thought:%d", id)); err != nil {
		s.log.Warn("cache invalidation failed", sl.Err(err))
	}
	return summary, nil
}
