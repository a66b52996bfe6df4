package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/thoughts2action/thoughts2action/internal/models"
)

// CreateThought вставляет новую заметку и возвращает её ID.
func (s *Storage) CreateThought(ctx context.Context, thought models.Thought) (int, error) {
	const op = "storage.CreateThought"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(thought.ActionItems)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO thoughts (user_uid, username, title, content, summary,
			      action_items, source)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		thought.UserUID, thought.Username, thought.Title, thought.Content,
		thought.Summary, string(items), thought.Source).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadThought возвращает данные заметки по её ID.
func (s *Storage) ReadThought(ctx context.Context, id int) (*models.Thought, error) {
	const op = "storage.ReadThought"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, title, content, summary, action_items,
			      source, created_at
			  FROM thoughts WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	result, err := scanThought(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateThought обновляет заголовок и текст заметки, возвращает количество изменённых строк.
func (s *Storage) UpdateThought(ctx context.Context, req models.Thought, id int) (int, error) {
	const op = "storage.UpdateThought"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE thoughts
			  SET title = $1, content = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, req.Title, req.Content, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveThought удаляет заметку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveThought(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveThought"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM thoughts WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetThoughtSummary записывает результат суммаризации в заметку.
func (s *Storage) SetThoughtSummary(ctx context.Context, id int, summary string, actionItems []string) error {
	const op = "storage.SetThoughtSummary"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(actionItems)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE thoughts
			  SET summary = $1, action_items = $2
			  WHERE id = $3`
	_, err = s.DB.ExecContext(ctx, query, summary, string(items), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListThoughts возвращает список заметок пользователя с пагинацией.
func (s *Storage) ListThoughts(ctx context.Context, username string, limit, offset int) ([]*models.Thought, error) {
	const op = "storage.ListThoughts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, title, content, summary, action_items,
			      source, created_at
			  FROM thoughts
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectThoughts(op, rows)
}

// ListAllThoughts возвращает список всех заметок с пагинацией. Только для админов.
func (s *Storage) ListAllThoughts(ctx context.Context, limit, offset int) ([]*models.Thought, error) {
	const op = "storage.ListAllThoughts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, title, content, summary, action_items,
			      source, created_at
			  FROM thoughts
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectThoughts(op, rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThought(row rowScanner) (*models.Thought, error) {
	var item models.Thought
	var summary sql.NullString
	var items []byte
	if err := row.Scan(&item.ID, &item.UserUID, &item.Username, &item.Title,
		&item.Content, &summary, &items, &item.Source, &item.CreatedAt); err != nil {
		return nil, err
	}
	if summary.Valid {
		item.Summary = summary.String
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &item.ActionItems); err != nil {
			return nil, err
		}
	}
	return &item, nil
}

func collectThoughts(op string, rows *sql.Rows) ([]*models.Thought, error) {
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Thought
	for rows.Next() {
		item, err := scanThought(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
