package service

import (
	"time"

	"smarttasker/internal/domain"
)

// Urgency scoring: the list is primarily sorted by how close the due date is,
// with priority breaking ties between tasks due at the same moment. A task with
// no due date has no time pressure and scores on priority alone.
const (
	// Due dates further out than the horizon all score the same floor.
	urgencyHorizonDays = 30.0
	// Keeps one day of proximity worth more than the full priority spread.
	urgencyProximityWeight = 10.0
)

func priorityWeight(p domain.Priority) float64 {
	switch p {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityLow:
		return 1
	default:
		return 2
	}
}

// Urgency computes the derived sort score for a due date and priority.
// Overdue tasks clamp to the maximum of their priority tier.
func Urgency(due *time.Time, p domain.Priority, now time.Time) float64 {
	weight := priorityWeight(p)
	if due == nil {
		return weight
	}

	daysLeft := due.Sub(now).Hours() / 24
	if daysLeft < 0 {
		daysLeft = 0
	}

	proximity := urgencyHorizonDays - daysLeft
	if proximity < 0 {
		proximity = 0
	}

	return proximity*urgencyProximityWeight + weight
}
