package mapper

import (
	"time"

	"cadence/internal/adapter/http/dto"
	"cadence/internal/core/domain"
)

func ToSectionItems(sections []domain.Section) []dto.SectionItem {
	items := make([]dto.SectionItem, 0, len(sections))
	for _, section := range sections {
		items = append(items, ToSectionItem(section))
	}
	return items
}

func ToSectionItem(section domain.Section) dto.SectionItem {
	return dto.SectionItem{
		ID:        section.ID,
		Name:      section.Name,
		Position:  section.Position,
		CreatedAt: section.CreatedAt.Format(time.RFC3339),
	}
}
