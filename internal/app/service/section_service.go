package service

import (
	"context"

	"github.com/google/uuid"

	"cadence/internal/core/domain"
	"cadence/internal/core/ports"
)

type SectionService struct {
	sections ports.SectionRepository
	cache    ports.ProjectionCache
	clock    domain.Clock
}

func NewSectionService(sections ports.SectionRepository, cache ports.ProjectionCache, clock domain.Clock) *SectionService {
	return &SectionService{sections: sections, cache: cache, clock: clock}
}

var _ ports.SectionService = (*SectionService)(nil)

func (s *SectionService) CreateSection(ctx context.Context, userID string, input domain.CreateSectionInput) (*domain.Section, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	section := &domain.Section{
		ID:        id,
		UserID:    userID,
		Name:      input.Name,
		Position:  input.Position,
		CreatedAt: s.clock.Now(),
	}
	if err := s.sections.Insert(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) ListSections(ctx context.Context, userID string) ([]domain.Section, error) {
	return s.sections.ListByUser(ctx, userID)
}

func (s *SectionService) UpdateSection(ctx context.Context, userID, id string, changes domain.SectionChanges) (*domain.Section, error) {
	section, err := s.sections.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if changes.Name != nil {
		section.Name = *changes.Name
	}
	if changes.Position != nil {
		section.Position = *changes.Position
	}

	if err := s.sections.Update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// DeleteSection detaches the section's tasks (they keep existing
// without a section) and invalidates projections for the user.
func (s *SectionService) DeleteSection(ctx context.Context, userID, id string) error {
	if err := s.sections.Delete(ctx, userID, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return nil
}
