package service

import (
	"context"
	"fmt"
	"time"

	"smarttasker/internal/domain"

	"github.com/google/uuid"
)

// TaskStore - порт хранилища задач. Каталог работает только через него.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	MaxOrder(ctx context.Context, ownerID int64) (int, error)
	Create(ctx context.Context, t *domain.Task) error
	CreateBatch(ctx context.Context, tasks []*domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	DeleteSeries(ctx context.Context, ownerID int64, recurrenceID string) error
	UpdateOrders(ctx context.Context, ownerID int64, ids []string) error
}

type TaskService struct {
	store TaskStore
	now   func() time.Time
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

// NewTaskServiceWithClock allows tests to pin the urgency clock.
func NewTaskServiceWithClock(store TaskStore, now func() time.Time) *TaskService {
	return &TaskService{store: store, now: now}
}

type CreateTaskInput struct {
	Title         string
	Description   string
	Location      string
	DueDate       *time.Time
	EndDate       *time.Time
	Priority      domain.Priority
	Tags          []string
	Subtasks      []domain.Subtask
	AISuggestions []string
	IsAllDay      bool
	Recurrence    string
}

type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Location      *string
	IsCompleted   *bool
	IsAllDay      *bool
	Priority      *domain.Priority
	DueDate       *time.Time
	DueDateSet    bool
	EndDate       *time.Time
	EndDateSet    bool
	Tags          *[]string
	Subtasks      *[]domain.Subtask
	AISuggestions *[]string
	Recurrence    *string
	RecurrenceID  *string
}

// List returns the owner's tasks in catalog order:
// manual order asc, urgency desc, newest first.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	tasks, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create persists one task, or a whole materialized series when the input
// carries a recurrence kind. For a series only the first instance is returned;
// the rest are discoverable via List.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalidArgument)
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("priority %q: %w", priority, domain.ErrInvalidArgument)
	}

	rec := NormalizeRecurrence(in.Recurrence)

	base := domain.Task{
		OwnerID:       ownerID,
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		Priority:      priority,
		Tags:          in.Tags,
		Subtasks:      in.Subtasks,
		AISuggestions: in.AISuggestions,
		IsAllDay:      in.IsAllDay,
	}
	if base.Tags == nil {
		base.Tags = []string{}
	}
	if base.Subtasks == nil {
		base.Subtasks = []domain.Subtask{}
	}

	// Not transactional: two concurrent creates for one owner can race on the
	// max-order read. Order is only a manual tie-break, so a collision costs
	// nothing beyond list ordering.
	maxOrder, err := s.store.MaxOrder(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read max order: %w", err)
	}
	nextOrder := maxOrder + 1

	if rec == domain.RecurrenceNone {
		task := base
		task.ID = uuid.NewString()
		task.Recurrence = domain.RecurrenceNone
		task.DueDate = in.DueDate
		task.EndDate = in.EndDate
		task.Order = nextOrder
		task.UrgencyScore = Urgency(task.DueDate, task.Priority, s.now())

		if err := s.store.Create(ctx, &task); err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
		return &task, nil
	}

	instances, err := ExpandRecurrence(base, rec, in.DueDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	batch := make([]*domain.Task, 0, len(instances))
	for i := range instances {
		inst := &instances[i]
		inst.ID = uuid.NewString()
		inst.Order = nextOrder + i
		inst.UrgencyScore = Urgency(inst.DueDate, inst.Priority, now)
		batch = append(batch, inst)
	}

	if err := s.store.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return batch[0], nil
}

// Get returns a single owned task.
func (s *TaskService) Get(ctx context.Context, ownerID int64, taskID string) (*domain.Task, error) {
	return s.getOwned(ctx, ownerID, taskID)
}

// Update applies a partial patch to an owned task and always recomputes the
// urgency score, even when neither due date nor priority changed.
func (s *TaskService) Update(ctx context.Context, ownerID int64, taskID string, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title != "" {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Location != nil {
		task.Location = *in.Location
	}
	if in.IsCompleted != nil {
		task.IsCompleted = *in.IsCompleted
	}
	if in.IsAllDay != nil {
		task.IsAllDay = *in.IsAllDay
	}
	if in.Priority != nil && *in.Priority != "" {
		if !domain.ValidPriority(*in.Priority) {
			return nil, fmt.Errorf("priority %q: %w", *in.Priority, domain.ErrInvalidArgument)
		}
		task.Priority = *in.Priority
	}
	if in.DueDateSet {
		task.DueDate = in.DueDate
	}
	if in.EndDateSet {
		task.EndDate = in.EndDate
	}
	if in.Tags != nil {
		task.Tags = *in.Tags
		// колонка tags NOT NULL, nil-срез превращаем в пустой
		if task.Tags == nil {
			task.Tags = []string{}
		}
	}
	if in.Subtasks != nil {
		task.Subtasks = *in.Subtasks
	}
	if in.AISuggestions != nil {
		task.AISuggestions = *in.AISuggestions
	}
	if in.Recurrence != nil {
		task.Recurrence = NormalizeRecurrence(*in.Recurrence)
	}
	if in.RecurrenceID != nil {
		task.RecurrenceID = in.RecurrenceID
	}

	task.UrgencyScore = Urgency(task.DueDate, task.Priority, s.now())

	if err := s.store.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a single task, or the whole series when scope is "series"
// and the task carries a recurrence id.
func (s *TaskService) Delete(ctx context.Context, ownerID int64, taskID, scope string) error {
	task, err := s.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return err
	}

	if scope == "series" && task.IsSeries() {
		if err := s.store.DeleteSeries(ctx, ownerID, *task.RecurrenceID); err != nil {
			return fmt.Errorf("delete series: %w", err)
		}
		return nil
	}

	if err := s.store.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Reorder assigns order = index for each id. Ids not owned by ownerID are
// silently left untouched by the owner-scoped bulk update.
func (s *TaskService) Reorder(ctx context.Context, ownerID int64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.UpdateOrders(ctx, ownerID, ids); err != nil {
		return fmt.Errorf("reorder tasks: %w", err)
	}
	return nil
}

// getOwned is the single ownership guard: missing id is NotFound, an existing
// task with a different owner is Forbidden. The distinction leaks existence
// on purpose - it matches the deployed behavior clients rely on.
func (s *TaskService) getOwned(ctx context.Context, ownerID int64, taskID string) (*domain.Task, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}
