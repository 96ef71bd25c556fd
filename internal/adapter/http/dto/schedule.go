package dto

// ScheduleItem is one task's appearance on one projected day.
type ScheduleItem struct {
	Task    TaskItem `json:"task"`
	Outcome *string  `json:"outcome,omitempty"`
	Note    *string  `json:"note,omitempty"`
}

// ScheduleResponse maps ISO UTC-midnight date stamps to that day's
// occurrences.
type ScheduleResponse map[string][]ScheduleItem
