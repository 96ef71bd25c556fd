package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

const selectTaskColumns = `
SELECT id, user_id, title, section_id, time_of_day, duration_minutes, status,
       recurrence, source_task_id, parent_id, is_off_schedule, is_rollover,
       created_at, updated_at
FROM tasks
`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	Title           string         `db:"title"`
	SectionID       sql.NullString `db:"section_id"`
	TimeOfDay       sql.NullString `db:"time_of_day"`
	DurationMinutes int            `db:"duration_minutes"`
	Status          string         `db:"status"`
	Recurrence      sql.NullString `db:"recurrence"`
	SourceTaskID    sql.NullString `db:"source_task_id"`
	ParentID        sql.NullString `db:"parent_id"`
	IsOffSchedule   bool           `db:"is_off_schedule"`
	IsRollover      bool           `db:"is_rollover"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) error {
	recurrence, err := marshalRecurrence(task.Recurrence)
	if err != nil {
		return err
	}

	_, err = extFrom(ctx, r.db).ExecContext(ctx, `
INSERT INTO tasks (id, user_id, title, section_id, time_of_day, duration_minutes,
                   status, recurrence, source_task_id, parent_id, is_off_schedule,
                   is_rollover, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.SectionID, task.TimeOfDay,
		task.DurationMinutes, task.Status, recurrence, task.SourceTaskID,
		task.ParentID, task.IsOffSchedule, task.IsRollover,
		task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	recurrence, err := marshalRecurrence(task.Recurrence)
	if err != nil {
		return err
	}

	result, err := extFrom(ctx, r.db).ExecContext(ctx, `
UPDATE tasks
SET title = ?, section_id = ?, time_of_day = ?, duration_minutes = ?, status = ?,
    recurrence = ?, source_task_id = ?, parent_id = ?, is_off_schedule = ?,
    is_rollover = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		task.Title, task.SectionID, task.TimeOfDay, task.DurationMinutes,
		task.Status, recurrence, task.SourceTaskID, task.ParentID,
		task.IsOffSchedule, task.IsRollover, task.UpdatedAt,
		task.ID, task.UserID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := extFrom(ctx, r.db).ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, extFrom(ctx, r.db), &row,
		selectTaskColumns+"WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	task, err := mapTaskRow(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	var rows []taskRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		selectTaskColumns+"WHERE user_id = ? ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

func (r *TaskRepository) ListBySection(ctx context.Context, userID, sectionID string) ([]domain.Task, error) {
	var rows []taskRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		selectTaskColumns+"WHERE user_id = ? AND section_id = ? ORDER BY created_at", userID, sectionID)
	if err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

func (r *TaskRepository) ListSubtasks(ctx context.Context, userID, parentID string) ([]domain.Task, error) {
	var rows []taskRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		selectTaskColumns+"WHERE user_id = ? AND parent_id = ? ORDER BY created_at", userID, parentID)
	if err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

// FindOffScheduleInstance matches the instance whose recurrence start
// date falls on the given day; the stored stamp is UTC midnight, so a
// prefix match on the date key is exact.
func (r *TaskRepository) FindOffScheduleInstance(ctx context.Context, userID, sourceTaskID string, date domain.Date) (*domain.Task, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, extFrom(ctx, r.db), &row,
		selectTaskColumns+`
WHERE user_id = ? AND source_task_id = ? AND is_off_schedule = 1
  AND JSON_UNQUOTE(JSON_EXTRACT(recurrence, '$.startDate')) LIKE ?`,
		userID, sourceTaskID, date.Key()+"%")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	task, err := mapTaskRow(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListRolloverTasks(ctx context.Context) ([]domain.Task, error) {
	var rows []taskRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		selectTaskColumns+"WHERE is_rollover = 1 AND is_off_schedule = 0")
	if err != nil {
		return nil, err
	}
	return mapTaskRows(rows)
}

func mapTaskRows(rows []taskRow) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRow(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func mapTaskRow(row taskRow) (*domain.Task, error) {
	task := &domain.Task{
		ID:              row.ID,
		UserID:          row.UserID,
		Title:           row.Title,
		DurationMinutes: row.DurationMinutes,
		Status:          domain.TaskStatus(row.Status),
		IsOffSchedule:   row.IsOffSchedule,
		IsRollover:      row.IsRollover,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}

	if row.SectionID.Valid {
		value := row.SectionID.String
		task.SectionID = &value
	}
	if row.TimeOfDay.Valid {
		value := row.TimeOfDay.String
		task.TimeOfDay = &value
	}
	if row.SourceTaskID.Valid {
		value := row.SourceTaskID.String
		task.SourceTaskID = &value
	}
	if row.ParentID.Valid {
		value := row.ParentID.String
		task.ParentID = &value
	}

	if row.Recurrence.Valid && row.Recurrence.String != "" {
		var recurrence domain.Recurrence
		if err := json.Unmarshal([]byte(row.Recurrence.String), &recurrence); err != nil {
			return nil, fmt.Errorf("task %s: %w: %v", row.ID, domain.ErrInvalidRecurrence, err)
		}
		task.Recurrence = &recurrence
	}

	return task, nil
}

func marshalRecurrence(recurrence *domain.Recurrence) (sql.NullString, error) {
	if recurrence == nil {
		return sql.NullString{}, nil
	}
	payload, err := json.Marshal(recurrence)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: %v", domain.ErrInvalidRecurrence, err)
	}
	return sql.NullString{String: string(payload), Valid: true}, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
