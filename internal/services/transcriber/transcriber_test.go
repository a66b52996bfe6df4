package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

type EngineMock struct{ mock.Mock }

func (m *EngineMock) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	args := m.Called(ctx, filename, audio)
	return args.String(0), args.Error(1)
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateThought(ctx context.Context, thought models.Thought) (int, error) {
	args := m.Called(ctx, thought)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTranscriberService_Transcribe(t *testing.T) {
	user := &models.User{UID: "uid-1", Username: "alice"}
	audio := strings.NewReader("fake audio bytes")

	tests := []struct {
		name       string
		setupMocks func(e *EngineMock, r *RepoMock)
		wantID     int
		wantText   string
		wantErr    bool
	}{
		{
			name: "расшифровка сохраняется заметкой с источником transcribed",
			setupMocks: func(e *EngineMock, r *RepoMock) {
				e.On("Transcribe", mock.Anything, "memo.ogg", mock.Anything).
					Return("call the dentist tomorrow morning", nil).Once()
				r.On("CreateThought", mock.Anything, mock.MatchedBy(func(th models.Thought) bool {
					return th.Source == models.SourceTranscribed &&
						th.UserUID == "uid-1" &&
						th.Content == "call the dentist tomorrow morning" &&
						th.Title == "call the dentist tomorrow morning"
				})).Return(7, nil).Once()
			},
			wantID:   7,
			wantText: "call the dentist tomorrow morning",
		},
		{
			name: "длинная расшифровка обрезается в заголовке",
			setupMocks: func(e *EngineMock, r *RepoMock) {
				e.On("Transcribe", mock.Anything, "memo.ogg", mock.Anything).
					Return("one two three four five six seven eight nine ten", nil).Once()
				r.On("CreateThought", mock.Anything, mock.MatchedBy(func(th models.Thought) bool {
					return th.Title == "one two three four five six seven eight..."
				})).Return(8, nil).Once()
			},
			wantID:   8,
			wantText: "one two three four five six seven eight nine ten",
		},
		{
			name: "пустая расшифровка — ошибка без записи",
			setupMocks: func(e *EngineMock, r *RepoMock) {
				e.On("Transcribe", mock.Anything, "memo.ogg", mock.Anything).Return("   ", nil).Once()
			},
			wantErr: true,
		},
		{
			name: "ошибка движка пробрасывается",
			setupMocks: func(e *EngineMock, r *RepoMock) {
				e.On("Transcribe", mock.Anything, "memo.ogg", mock.Anything).
					Return("", errors.New("upstream timeout")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(EngineMock)
			repo := new(RepoMock)
			service := NewTranscriberService(engine, repo, newNoopLogger())
			tt.setupMocks(engine, repo)

			id, text, err := service.Transcribe(context.Background(), user, "memo.ogg", audio)
			if tt.wantErr {
				assert.Error(t, err)
				repo.AssertNotCalled(t, "CreateThought", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantText, text)
			}
			engine.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}
