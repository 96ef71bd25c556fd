package ports

import (
	"context"

	"cadence/internal/core/domain"
)

type SectionRepository interface {
	Insert(ctx context.Context, section *domain.Section) error
	Update(ctx context.Context, section *domain.Section) error
	// Delete detaches the section's tasks rather than removing them.
	Delete(ctx context.Context, userID, id string) error
	FindByID(ctx context.Context, userID, id string) (*domain.Section, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Section, error)
}

type SectionService interface {
	CreateSection(ctx context.Context, userID string, input domain.CreateSectionInput) (*domain.Section, error)
	ListSections(ctx context.Context, userID string) ([]domain.Section, error)
	UpdateSection(ctx context.Context, userID, id string, changes domain.SectionChanges) (*domain.Section, error)
	DeleteSection(ctx context.Context, userID, id string) error
}
