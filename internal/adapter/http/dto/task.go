package dto

// Recurrence mirrors the persisted descriptor. Field names are part of
// the sync contract with offline clients and round-trip exactly.
type Recurrence struct {
	Type            string   `json:"type" binding:"required,oneof=none daily interval weekly monthly yearly"`
	Interval        int      `json:"interval,omitempty" binding:"omitempty,gte=1"`
	Days            []int    `json:"days,omitempty" binding:"omitempty,dive,gte=0,lte=6"`
	DayOfMonth      []int    `json:"dayOfMonth,omitempty" binding:"omitempty,dive,gte=1,lte=31"`
	Ordinal         *int     `json:"ordinal,omitempty" binding:"omitempty,gte=1,lte=5"`
	DayOfWeek       *int     `json:"dayOfWeek,omitempty" binding:"omitempty,gte=0,lte=6"`
	Month           int      `json:"month,omitempty" binding:"omitempty,gte=1,lte=12"`
	StartDate       *string  `json:"startDate,omitempty"`
	EndDate         *string  `json:"endDate,omitempty"`
	Exceptions      []string `json:"exceptions,omitempty"`
	AdditionalDates []string `json:"additionalDates,omitempty"`
}

type TaskItem struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	SectionID       *string     `json:"section_id,omitempty"`
	TimeOfDay       *string     `json:"time_of_day,omitempty"`
	DurationMinutes int         `json:"duration_minutes"`
	Status          string      `json:"status"`
	Recurrence      *Recurrence `json:"recurrence,omitempty"`
	SourceTaskID    *string     `json:"source_task_id,omitempty"`
	ParentID        *string     `json:"parent_id,omitempty"`
	IsOffSchedule   bool        `json:"is_off_schedule"`
	IsRollover      bool        `json:"is_rollover"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

type CreateTaskRequest struct {
	ID              *string     `json:"id" binding:"omitempty,uuid"`
	Title           string      `json:"title" binding:"required,max=255"`
	SectionID       *string     `json:"section_id"`
	TimeOfDay       *string     `json:"time_of_day" binding:"omitempty,datetime=15:04"`
	DurationMinutes *int        `json:"duration_minutes" binding:"omitempty,gte=0"`
	Status          *string     `json:"status" binding:"omitempty,oneof=todo in_progress complete"`
	Recurrence      *Recurrence `json:"recurrence"`
	ParentID        *string     `json:"parent_id"`
	IsRollover      *bool       `json:"is_rollover"`
}

// UpdateTaskRequest is sparse; omitted fields are untouched. It doubles
// as the changes block of a split request.
type UpdateTaskRequest struct {
	Title           *string     `json:"title" binding:"omitempty,max=255"`
	SectionID       *string     `json:"section_id"`
	TimeOfDay       *string     `json:"time_of_day" binding:"omitempty,datetime=15:04"`
	DurationMinutes *int        `json:"duration_minutes" binding:"omitempty,gte=0"`
	Date            *string     `json:"date"`
	Recurrence      *Recurrence `json:"recurrence"`
}

type SplitSeriesRequest struct {
	Scope    string            `json:"scope" binding:"required,oneof=thisOnly thisAndFuture"`
	EditDate string            `json:"edit_date" binding:"required"`
	Changes  UpdateTaskRequest `json:"changes"`
}

type SplitSeriesResponse struct {
	Original TaskItem `json:"original"`
	Derived  TaskItem `json:"derived"`
}
