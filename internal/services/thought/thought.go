// Package services содержит бизнес-логику работы с заметками.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thoughts2action/thoughts2action/internal/lib/sl"
	"github.com/thoughts2action/thoughts2action/internal/models"
)

// ErrNotOwner возвращается, когда пользователь обращается к чужой заметке.
var ErrNotOwner = errors.New("thought does not belong to user")

// ThoughtRepository определяет методы для работы с заметками в хранилище.
type ThoughtRepository interface {
	CreateThought(ctx context.Context, thought models.Thought) (int, error)
	ReadThought(ctx context.Context, id int) (*models.Thought, error)
	UpdateThought(ctx context.Context, thought models.Thought, id int) (int, error)
	RemoveThought(ctx context.Context, id int) (int, error)
	ListThoughts(ctx context.Context, username string, limit, offset int) ([]*models.Thought, error)
	ListAllThoughts(ctx context.Context, limit, offset int) ([]*models.Thought, error)
}

// Cache определяет методы кеширования заметок.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ThoughtService реализует CRUD заметок с кешированием чтения.
type ThoughtService struct {
	repo  ThoughtRepository
	cache Cache
	log   *slog.Logger
}

const cacheTTL = 5 * time.Minute

// NewThoughtService создает новый экземпляр ThoughtService.
func NewThoughtService(repo ThoughtRepository, cache Cache, log *slog.Logger) *ThoughtService {
	return &ThoughtService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int) string {
	return fmt.Sprintf("thought:%d", id)
}

// Create сохраняет новую заметку пользователя.
func (s *ThoughtService) Create(ctx context.Context, user *models.User, req models.DummyThought, source string) (int, error) {
	const op = "services.thought.Create"

	id, err := s.repo.CreateThought(ctx, models.Thought{
		UserUID:  user.UID,
		Username: user.Username,
		Title:    req.Title,
		Content:  req.Content,
		Source:   source,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Read возвращает заметку по ID. Чужая заметка доступна только администратору.
func (s *ThoughtService) Read(ctx context.Context, user *models.User, id int) (*models.Thought, error) {
	const op = "services.thought.Read"

	var cached models.Thought
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		if err := checkOwnership(user, &cached); err != nil {
			return nil, err
		}
		return &cached, nil
	}

	thought, err := s.repo.ReadThought(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkOwnership(user, thought); err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey(id), thought, cacheTTL); err != nil {
		s.log.Warn("cache write failed", sl.Err(err))
	}
	return thought, nil
}

// Update изменяет заголовок и текст заметки.
func (s *ThoughtService) Update(ctx context.Context, user *models.User, req models.DummyThought, id int) (int, error) {
	const op = "services.thought.Update"

	current, err := s.repo.ReadThought(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkOwnership(user, current); err != nil {
		return 0, err
	}

	count, err := s.repo.UpdateThought(ctx, models.Thought{
		Title:   req.Title,
		Content: req.Content,
	}, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("cache invalidation failed", sl.Err(err))
	}
	return count, nil
}

// Remove удаляет заметку.
func (s *ThoughtService) Remove(ctx context.Context, user *models.User, id int) (int, error) {
	const op = "services.thought.Remove"

	current, err := s.repo.ReadThought(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkOwnership(user, current); err != nil {
		return 0, err
	}

	count, err := s.repo.RemoveThought(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("cache invalidation failed", sl.Err(err))
	}
	return count, nil
}

// List возвращает заметки пользователя; администратор видит все.
func (s *ThoughtService) List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Thought, error) {
	const op = "services.thought.List"

	var (
		list []*models.Thought
		err  error
	)
	if user.IsAdmin() {
		list, err = s.repo.ListAllThoughts(ctx, limit, offset)
	} else {
		list, err = s.repo.ListThoughts(ctx, user.Username, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// checkOwnership сверяет владельца заметки с пользователем запроса.
func checkOwnership(user *models.User, thought *models.Thought) error {
	if user.IsAdmin() {
		return nil
	}
	if thought.UserUID != user.UID {
		return ErrNotOwner
	}
	return nil
}
