package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

type SheetsMock struct{ mock.Mock }

func (m *SheetsMock) AppendRows(ctx context.Context, sheetRange string, rows [][]string) (int, error) {
	args := m.Called(ctx, sheetRange, rows)
	return args.Int(0), args.Error(1)
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListThoughts(ctx context.Context, username string, limit, offset int) ([]*models.Thought, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Thought), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestExporterService_Export(t *testing.T) {
	user := &models.User{UID: "uid-1", Username: "alice"}
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	thoughts := []*models.Thought{
		{
			ID:          1,
			Username:    "alice",
			Title:       "release planning",
			Content:     "ship the beta",
			Summary:     "plan the release",
			ActionItems: []string{"ship beta", "gather feedback"},
			Source:      models.SourceTyped,
			CreatedAt:   created,
		},
	}

	tests := []struct {
		name       string
		setupMocks func(s *SheetsMock, r *RepoMock)
		wantRows   int
		wantErr    bool
	}{
		{
			name: "заметки превращаются в строки таблицы",
			setupMocks: func(s *SheetsMock, r *RepoMock) {
				r.On("ListThoughts", mock.Anything, "alice", exportBatchLimit, 0).Return(thoughts, nil).Once()
				s.On("AppendRows", mock.Anything, "Thoughts!A:G", [][]string{
					{"1", "2026-08-01", "release planning", "ship the beta", "plan the release", "ship beta; gather feedback", "typed"},
				}).Return(1, nil).Once()
			},
			wantRows: 1,
		},
		{
			name: "нет заметок — нет обращения к таблице",
			setupMocks: func(s *SheetsMock, r *RepoMock) {
				r.On("ListThoughts", mock.Anything, "alice", exportBatchLimit, 0).
					Return([]*models.Thought{}, nil).Once()
			},
			wantRows: 0,
		},
		{
			name: "ошибка таблицы пробрасывается",
			setupMocks: func(s *SheetsMock, r *RepoMock) {
				r.On("ListThoughts", mock.Anything, "alice", exportBatchLimit, 0).Return(thoughts, nil).Once()
				s.On("AppendRows", mock.Anything, "Thoughts!A:G", mock.Anything).
					Return(0, errors.New("quota exceeded")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheets := new(SheetsMock)
			repo := new(RepoMock)
			service := NewExporterService(sheets, repo, newNoopLogger())
			tt.setupMocks(sheets, repo)

			count, err := service.Export(context.Background(), user)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantRows, count)
			}
			sheets.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}
