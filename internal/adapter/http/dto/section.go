package dto

type SectionItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
}

type CreateSectionRequest struct {
	ID       *string `json:"id" binding:"omitempty,uuid"`
	Name     string  `json:"name" binding:"required,max=255"`
	Position *int    `json:"position" binding:"omitempty,gte=0"`
}

// UpdateSectionRequest is sparse; omitted fields are untouched.
type UpdateSectionRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Position *int    `json:"position" binding:"omitempty,gte=0"`
}
