package domain

import "time"

// Priority - приоритет задачи
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Recurrence - интервал повторения задачи
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// Subtask - пункт чек-листа внутри задачи
type Subtask struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task - единственная сущность каталога. Одна строка = один экземпляр
// на календаре; повторяющаяся задача материализуется как серия строк
// с общим RecurrenceID.
type Task struct {
	ID            string     `db:"id" json:"id"`
	OwnerID       int64      `db:"owner_id" json:"ownerId"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Location      string     `db:"location" json:"location"`
	DueDate       *time.Time `db:"due_date" json:"dueDate,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"endDate,omitempty"`
	Priority      Priority   `db:"priority" json:"priority"`
	Tags          []string   `db:"tags" json:"tags"`
	IsCompleted   bool       `db:"is_completed" json:"isCompleted"`
	IsAllDay      bool       `db:"is_all_day" json:"isAllDay"`
	Subtasks      []Subtask  `db:"subtasks" json:"subtasks"`
	AISuggestions []string   `db:"ai_suggestions" json:"aiSuggestions,omitempty"`
	Recurrence    Recurrence `db:"recurrence" json:"recurrence"`
	RecurrenceID  *string    `db:"recurrence_id" json:"recurrenceId,omitempty"`
	Order         int        `db:"sort_order" json:"order"`
	UrgencyScore  float64    `db:"urgency_score" json:"urgencyScore"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// ValidPriority reports whether p is one of the three known tiers.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidRecurrence reports whether r is a known recurrence kind.
func ValidRecurrence(r Recurrence) bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// IsSeries reports whether the task belongs to a recurrence series.
func (t *Task) IsSeries() bool {
	return t.RecurrenceID != nil && *t.RecurrenceID != ""
}
