package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

const selectCompletionColumns = `
SELECT id, task_id, user_id, completed_on, outcome, note, created_at
FROM completions
`

type CompletionRepository struct {
	db *sqlx.DB
}

type completionRow struct {
	ID          string         `db:"id"`
	TaskID      string         `db:"task_id"`
	UserID      string         `db:"user_id"`
	CompletedOn time.Time      `db:"completed_on"`
	Outcome     string         `db:"outcome"`
	Note        sql.NullString `db:"note"`
	CreatedAt   time.Time      `db:"created_at"`
}

var _ ports.CompletionRepository = (*CompletionRepository)(nil)

func NewCompletionRepository(db *sqlx.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Upsert writes the (task, date) row, updating in place on conflict.
// The unique key on (task_id, completed_on) makes this the only safe
// write path regardless of interleaving.
func (r *CompletionRepository) Upsert(ctx context.Context, completion *domain.Completion) error {
	_, err := extFrom(ctx, r.db).ExecContext(ctx, `
INSERT INTO completions (id, task_id, user_id, completed_on, outcome, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE outcome = VALUES(outcome), note = VALUES(note)`,
		completion.ID, completion.TaskID, completion.UserID,
		completion.Date.Time, completion.Outcome, completion.Note,
		completion.CreatedAt,
	)
	return err
}

func (r *CompletionRepository) Delete(ctx context.Context, userID, taskID string, date domain.Date) error {
	_, err := extFrom(ctx, r.db).ExecContext(ctx,
		"DELETE FROM completions WHERE user_id = ? AND task_id = ? AND completed_on = ?",
		userID, taskID, date.Time)
	return err
}

func (r *CompletionRepository) Find(ctx context.Context, userID, taskID string, date domain.Date) (*domain.Completion, error) {
	var row completionRow
	err := sqlx.GetContext(ctx, extFrom(ctx, r.db), &row,
		selectCompletionColumns+"WHERE user_id = ? AND task_id = ? AND completed_on = ?",
		userID, taskID, date.Time)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	completion := mapCompletionRow(row)
	return &completion, nil
}

func (r *CompletionRepository) ListByTask(ctx context.Context, userID, taskID string) ([]domain.Completion, error) {
	var rows []completionRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		selectCompletionColumns+"WHERE user_id = ? AND task_id = ? ORDER BY completed_on",
		userID, taskID)
	if err != nil {
		return nil, err
	}
	return mapCompletionRows(rows), nil
}

func (r *CompletionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Completion, error) {
	var rows []completionRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		selectCompletionColumns+"WHERE user_id = ? ORDER BY completed_on", userID)
	if err != nil {
		return nil, err
	}
	return mapCompletionRows(rows), nil
}

func mapCompletionRows(rows []completionRow) []domain.Completion {
	completions := make([]domain.Completion, 0, len(rows))
	for _, row := range rows {
		completions = append(completions, mapCompletionRow(row))
	}
	return completions
}

func mapCompletionRow(row completionRow) domain.Completion {
	completion := domain.Completion{
		ID:        row.ID,
		TaskID:    row.TaskID,
		UserID:    row.UserID,
		Date:      domain.Canonicalize(row.CompletedOn),
		Outcome:   domain.Outcome(row.Outcome),
		CreatedAt: row.CreatedAt,
	}
	// Legacy rows carry no outcome; existence meant completed.
	if completion.Outcome == "" {
		completion.Outcome = domain.OutcomeCompleted
	}
	if row.Note.Valid {
		value := row.Note.String
		completion.Note = &value
	}
	return completion
}
