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

type SectionRepository struct {
	db *sqlx.DB
}

type sectionRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

var _ ports.SectionRepository = (*SectionRepository)(nil)

func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) Insert(ctx context.Context, section *domain.Section) error {
	_, err := extFrom(ctx, r.db).ExecContext(ctx, `
INSERT INTO sections (id, user_id, name, position, created_at)
VALUES (?, ?, ?, ?, ?)`,
		section.ID, section.UserID, section.Name, section.Position, section.CreatedAt,
	)
	return err
}

func (r *SectionRepository) Update(ctx context.Context, section *domain.Section) error {
	result, err := extFrom(ctx, r.db).ExecContext(ctx, `
UPDATE sections
SET name = ?, position = ?
WHERE id = ? AND user_id = ?`,
		section.Name, section.Position, section.ID, section.UserID,
	)
	if err != nil {
		return err
	}
	return requireSectionRow(result)
}

// Delete relies on the tasks FK (ON DELETE SET NULL) to detach the
// section's tasks instead of removing them.
func (r *SectionRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := extFrom(ctx, r.db).ExecContext(ctx,
		"DELETE FROM sections WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireSectionRow(result)
}

func (r *SectionRepository) FindByID(ctx context.Context, userID, id string) (*domain.Section, error) {
	var row sectionRow
	err := sqlx.GetContext(ctx, extFrom(ctx, r.db), &row,
		"SELECT id, user_id, name, position, created_at FROM sections WHERE id = ? AND user_id = ?",
		id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSectionNotFound
	}
	if err != nil {
		return nil, err
	}
	section := mapSectionRow(row)
	return &section, nil
}

func (r *SectionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Section, error) {
	var rows []sectionRow
	err := sqlx.SelectContext(ctx, extFrom(ctx, r.db), &rows,
		"SELECT id, user_id, name, position, created_at FROM sections WHERE user_id = ? ORDER BY position, created_at",
		userID)
	if err != nil {
		return nil, err
	}

	sections := make([]domain.Section, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, mapSectionRow(row))
	}
	return sections, nil
}

func mapSectionRow(row sectionRow) domain.Section {
	return domain.Section{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Position:  row.Position,
		CreatedAt: row.CreatedAt,
	}
}

func requireSectionRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSectionNotFound
	}
	return nil
}
