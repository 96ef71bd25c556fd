package domain

import "time"

type RecurrenceType string

const (
	RecurrenceNone     RecurrenceType = "none"
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceInterval RecurrenceType = "interval"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceYearly   RecurrenceType = "yearly"
)

// Recurrence describes when a task is predicted to occur. The JSON
// shape round-trips exactly as offline clients persist it, so field
// names are part of the contract.
//
// Per-type fields: Interval (daily/interval, and month/year stride for
// monthly/yearly), Days (weekly weekday set, 0=Sunday), DayOfMonth or
// the Ordinal/DayOfWeek pair (monthly and yearly sub-patterns), Month
// (yearly). Exceptions suppress pattern dates; AdditionalDates add
// dates outside the pattern but only count once a completion exists.
type Recurrence struct {
	Type            RecurrenceType `json:"type"`
	Interval        int            `json:"interval,omitempty"`
	Days            []int          `json:"days,omitempty"`
	DayOfMonth      []int          `json:"dayOfMonth,omitempty"`
	Ordinal         *int           `json:"ordinal,omitempty"`
	DayOfWeek       *int           `json:"dayOfWeek,omitempty"`
	Month           int            `json:"month,omitempty"`
	StartDate       *Date          `json:"startDate,omitempty"`
	EndDate         *Date          `json:"endDate,omitempty"`
	Exceptions      []string       `json:"exceptions,omitempty"`
	AdditionalDates []string       `json:"additionalDates,omitempty"`
}

// NoneOn builds the descriptor for a single fixed occurrence.
func NoneOn(date Date) *Recurrence {
	start := date
	return &Recurrence{Type: RecurrenceNone, StartDate: &start}
}

// IsRecurring reports whether the descriptor predicts more than a
// single fixed day.
func (r *Recurrence) IsRecurring() bool {
	return r != nil && r.Type != "" && r.Type != RecurrenceNone
}

// HasException reports whether the pattern is suppressed on the date.
func (r *Recurrence) HasException(date Date) bool {
	if r == nil {
		return false
	}
	key := date.Key()
	for _, exception := range r.Exceptions {
		if exception == key {
			return true
		}
	}
	return false
}

// HasAdditionalDate reports whether the date was added outside the
// pattern. Whether it renders is the projector's call, not ours.
func (r *Recurrence) HasAdditionalDate(date Date) bool {
	if r == nil {
		return false
	}
	key := date.Key()
	for _, additional := range r.AdditionalDates {
		if additional == key {
			return true
		}
	}
	return false
}

// AddException records the date as suppressed; duplicates are dropped.
func (r *Recurrence) AddException(date Date) {
	if r.HasException(date) {
		return
	}
	r.Exceptions = append(r.Exceptions, date.Key())
}

// Clone deep-copies the descriptor so series splits never alias the
// original's slices.
func (r *Recurrence) Clone() *Recurrence {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Days = append([]int(nil), r.Days...)
	clone.DayOfMonth = append([]int(nil), r.DayOfMonth...)
	clone.Exceptions = append([]string(nil), r.Exceptions...)
	clone.AdditionalDates = append([]string(nil), r.AdditionalDates...)
	if r.Ordinal != nil {
		ordinal := *r.Ordinal
		clone.Ordinal = &ordinal
	}
	if r.DayOfWeek != nil {
		dayOfWeek := *r.DayOfWeek
		clone.DayOfWeek = &dayOfWeek
	}
	if r.StartDate != nil {
		start := *r.StartDate
		clone.StartDate = &start
	}
	if r.EndDate != nil {
		end := *r.EndDate
		clone.EndDate = &end
	}
	return &clone
}

// OccursOn reports whether the pattern predicts an occurrence on the
// candidate date. Pure: same inputs always yield the same answer.
//
// Precedence: start/end bounds, then exceptions (which beat a matching
// pattern), then the pattern itself. AdditionalDates are deliberately
// not consulted here; an added date only surfaces once a completion
// exists for it, which is the projector's rule.
func (r *Recurrence) OccursOn(candidate Date) bool {
	if r == nil {
		return false
	}
	if r.StartDate != nil && candidate.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && candidate.After(*r.EndDate) {
		return false
	}
	if r.HasException(candidate) {
		return false
	}

	switch r.Type {
	case RecurrenceNone:
		return r.StartDate != nil && candidate.Equal(*r.StartDate)
	case RecurrenceDaily, RecurrenceInterval:
		return r.occursDaily(candidate)
	case RecurrenceWeekly:
		return containsInt(r.Days, int(candidate.Weekday()))
	case RecurrenceMonthly:
		return r.occursMonthly(candidate)
	case RecurrenceYearly:
		return r.occursYearly(candidate)
	default:
		return false
	}
}

func (r *Recurrence) occursDaily(candidate Date) bool {
	interval := r.Interval
	if interval <= 0 {
		interval = 1
	}
	if r.StartDate == nil {
		return interval == 1
	}
	return candidate.DaysSince(*r.StartDate)%interval == 0
}

func (r *Recurrence) occursMonthly(candidate Date) bool {
	if !r.monthStrideMatches(candidate) {
		return false
	}
	return r.monthlyPatternMatches(candidate)
}

func (r *Recurrence) occursYearly(candidate Date) bool {
	if r.Month != int(candidate.Month()) {
		return false
	}
	if !r.yearStrideMatches(candidate) {
		return false
	}
	return r.monthlyPatternMatches(candidate)
}

// monthlyPatternMatches evaluates the shared monthly/yearly sub-pattern:
// either an explicit day-of-month set, or "the Nth <weekday> of the
// month".
func (r *Recurrence) monthlyPatternMatches(candidate Date) bool {
	if r.Ordinal != nil && r.DayOfWeek != nil {
		if int(candidate.Weekday()) != *r.DayOfWeek {
			return false
		}
		return weekdayOrdinalInMonth(candidate) == *r.Ordinal
	}
	return containsInt(r.DayOfMonth, candidate.Day())
}

func (r *Recurrence) monthStrideMatches(candidate Date) bool {
	if r.Interval <= 1 || r.StartDate == nil {
		return true
	}
	months := monthsBetween(*r.StartDate, candidate)
	return months >= 0 && months%r.Interval == 0
}

func (r *Recurrence) yearStrideMatches(candidate Date) bool {
	if r.Interval <= 1 || r.StartDate == nil {
		return true
	}
	years := candidate.Year() - r.StartDate.Year()
	return years >= 0 && years%r.Interval == 0
}

// weekdayOrdinalInMonth returns which occurrence of its weekday the
// date is within its month: the 1st through 5th.
func weekdayOrdinalInMonth(date Date) int {
	return (date.Day()-1)/7 + 1
}

func monthsBetween(from, to Date) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func containsInt(values []int, target int) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// DaysInMonth returns the length of the given month, used when a
// day-of-month pattern has to clamp (e.g. the 31st in February).
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
