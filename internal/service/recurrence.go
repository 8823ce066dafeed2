package service

import (
	"fmt"
	"strings"
	"time"

	"smarttasker/internal/domain"

	"github.com/google/uuid"
)

// Series horizons are a fixed policy to bound storage growth, not "repeat
// forever": daily/weekly cover one year, monthly two years, yearly five.
func seriesLength(r domain.Recurrence) int {
	switch r {
	case domain.RecurrenceDaily:
		return 365
	case domain.RecurrenceWeekly:
		return 52
	case domain.RecurrenceMonthly:
		return 24
	case domain.RecurrenceYearly:
		return 5
	default:
		return 1
	}
}

func stepDate(t time.Time, r domain.Recurrence) time.Time {
	switch r {
	case domain.RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case domain.RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case domain.RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	case domain.RecurrenceYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// NormalizeRecurrence lowercases raw client input and coerces empty or unknown
// kinds to "none".
func NormalizeRecurrence(raw string) domain.Recurrence {
	r := domain.Recurrence(strings.ToLower(strings.TrimSpace(raw)))
	if !domain.ValidRecurrence(r) {
		return domain.RecurrenceNone
	}
	return r
}

// ExpandRecurrence materializes a recurrence series from a single template
// task. Each instance steps the previous instance's due date (and end date,
// when present) by one calendar interval via time.AddDate, so month steps
// normalize the way calendars do: Jan 31 + 1 month lands on Mar 2/3, not a
// fixed 30-day offset. All instances share one freshly generated series id.
//
// With a nil start date no time-shifting is possible and every instance keeps
// a nil due date. recurrence "none" yields exactly one instance.
func ExpandRecurrence(template domain.Task, rec domain.Recurrence, startDue, startEnd *time.Time) ([]domain.Task, error) {
	if !domain.ValidRecurrence(rec) {
		return nil, fmt.Errorf("recurrence %q: %w", rec, domain.ErrInvalidArgument)
	}

	template.Recurrence = rec
	template.DueDate = startDue
	template.EndDate = startEnd

	if rec == domain.RecurrenceNone {
		single := template
		return []domain.Task{single}, nil
	}

	n := seriesLength(rec)
	seriesID := uuid.NewString()

	out := make([]domain.Task, 0, n)
	due := startDue
	end := startEnd

	for i := 0; i < n; i++ {
		inst := template
		inst.RecurrenceID = &seriesID
		if due != nil {
			d := *due
			inst.DueDate = &d
		}
		if end != nil {
			e := *end
			inst.EndDate = &e
		}
		out = append(out, inst)

		// No stepping without an anchor date.
		if due != nil {
			next := stepDate(*due, rec)
			due = &next
			if end != nil {
				nextEnd := stepDate(*end, rec)
				end = &nextEnd
			}
		}
	}

	return out, nil
}
