package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoughts2action/thoughts2action/internal/models"
	thoughtservice "github.com/thoughts2action/thoughts2action/internal/services/thought"
)

type EngineMock struct{ mock.Mock }

func (m *EngineMock) Summarize(ctx context.Context, content string) (*models.ThoughtSummary, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ThoughtSummary), args.Error(1)
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadThought(ctx context.Context, id int) (*models.Thought, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thought), args.Error(1)
}
func (m *RepoMock) SetThoughtSummary(ctx context.Context, id int, summary string, actionItems []string) error {
	return m.Called(ctx, id, summary, actionItems).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSummarizerService_Summarize(t *testing.T) {
	owner := &models.User{UID: "uid-1", Username: "alice", Role: models.RoleUser}
	other := &models.User{UID: "uid-2", Username: "bob", Role: models.RoleUser}
	stored := &models.Thought{ID: 42, UserUID: "uid-1", Content: "ship the beta and gather feedback"}
	summary := &models.ThoughtSummary{
		Summary:     "plan the beta release",
		ActionItems: []string{"ship the beta", "gather feedback"},
	}

	tests := []struct {
		name       string
		user       *models.User
		setupMocks func(e *EngineMock, r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "резюме сохраняется и кеш инвалидируется",
			user: owner,
			setupMocks: func(e *EngineMock, r *RepoMock, c *CacheMock) {
				r.On("ReadThought", mock.Anything, 42).Return(stored, nil).Once()
				e.On("Summarize", mock.Anything, stored.Content).Return(summary, nil).Once()
				r.On("SetThoughtSummary", mock.Anything, 42, summary.Summary, summary.ActionItems).Return(nil).Once()
				c.On("Invalidate", "thought:42").Return(nil).Once()
			},
		},
		{
			name: "чужая заметка недоступна",
			user: other,
			setupMocks: func(e *EngineMock, r *RepoMock, c *CacheMock) {
				r.On("ReadThought", mock.Anything, 42).Return(stored, nil).Once()
			},
			wantErr: thoughtservice.ErrNotOwner,
		},
		{
			name: "ошибка LLM не затирает заметку",
			user: owner,
			setupMocks: func(e *EngineMock, r *RepoMock, c *CacheMock) {
				r.On("ReadThought", mock.Anything, 42).Return(stored, nil).Once()
				e.On("Summarize", mock.Anything, stored.Content).
					Return(nil, errors.New("model overloaded")).Once()
			},
			wantErr: errors.New("model overloaded"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(EngineMock)
			repo := new(RepoMock)
			cache := new(CacheMock)
			service := NewSummarizerService(engine, repo, cache, newNoopLogger())
			tt.setupMocks(engine, repo, cache)

			got, err := service.Summarize(context.Background(), tt.user, 42)
			if tt.wantErr != nil {
				assert.Error(t, err)
				repo.AssertNotCalled(t, "SetThoughtSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, summary.Summary, got.Summary)
			}
			engine.AssertExpectations(t)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
