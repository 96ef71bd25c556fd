package domain

import "time"

// Section groups tasks in list views.
type Section struct {
	ID        string
	UserID    string
	Name      string
	Position  int
	CreatedAt time.Time
}

type CreateSectionInput struct {
	ID       string
	Name     string
	Position int
}

// SectionChanges is sparse; omitted fields are untouched.
type SectionChanges struct {
	Name     *string
	Position *int
}
