// Package services содержит бизнес-логику выгрузки заметок в Google Sheets.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

// exportBatchLimit ограничивает число заметок в одной выгрузке.
const exportBatchLimit = 500

// SheetsAppender дописывает строки в таблицу.
type SheetsAppender interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]string) (int, error)
}

// ExportRepository определяет методы хранилища для выгрузки.
type ExportRepository interface {
	ListThoughts(ctx context.Context, username string, limit, offset int) ([]*models.Thought, error)
}

// ExporterService выгружает заметки пользователя в таблицу.
type ExporterService struct {
	sheets SheetsAppender
	repo   ExportRepository
	log    *slog.Logger
}

// NewExporterService создает новый экземпляр ExporterService.
func NewExporterService(sheets SheetsAppender, repo ExportRepository, log *slog.Logger) *ExporterService {
	return &ExporterService{
		sheets: sheets,
		repo:   repo,
		log:    log,
	}
}

// Export выгружает заметки пользователя в лист Thoughts и возвращает
// количество добавленных строк.
func (s *ExporterService) Export(ctx context.Context, user *models.User) (int, error) {
	const op = "services.exporter.Export"

	thoughts, err := s.repo.ListThoughts(ctx, user.Username, exportBatchLimit, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(thoughts) == 0 {
		return 0, nil
	}

	rows := make([][]string, 0, len(thoughts))
	for _, thought := range thoughts {
		rows = append(rows, []string{
			strconv.Itoa(thought.ID),
			thought.CreatedAt.Format(time.DateOnly),
			thought.Title,
			thought.Content,
			thought.Summary,
			strings.Join(thought.ActionItems, "; "),
			thought.Source,
		})
	}

	count, err := s.sheets.AppendRows(ctx, "Thoughts!A:G", rows)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("thoughts exported",
		slog.String("username", user.Username), slog.Int("rows", count))
	return count, nil
}
