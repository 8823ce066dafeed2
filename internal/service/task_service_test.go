package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"smarttasker/internal/domain"
	"smarttasker/internal/repository/memory"
)

const ownerA int64 = 1
const ownerB int64 = 2

func newTestCatalog() (*TaskService, *memory.TaskStore) {
	store := memory.NewTaskStore()
	svc := NewTaskServiceWithClock(store, func() time.Time { return testNow })
	return svc, store
}

func mustCreate(t *testing.T, svc *TaskService, owner int64, in CreateTaskInput) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Title, err)
	}
	return task
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestCatalog()

	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "just a title"})

	if task.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %s; want Medium", task.Priority)
	}
	if task.Recurrence != domain.RecurrenceNone {
		t.Fatalf("recurrence = %s; want none", task.Recurrence)
	}
	if task.Tags == nil || len(task.Tags) != 0 {
		t.Fatalf("tags = %v; want empty slice", task.Tags)
	}
	if task.Subtasks == nil || len(task.Subtasks) != 0 {
		t.Fatalf("subtasks = %v; want empty slice", task.Subtasks)
	}
	if task.IsAllDay || task.IsCompleted {
		t.Fatal("flags should default to false")
	}
	if task.Order != 1 {
		t.Fatalf("first order = %d; want 1", task.Order)
	}
	if task.UrgencyScore != Urgency(nil, domain.PriorityMedium, testNow) {
		t.Fatalf("score = %v not consistent with scorer", task.UrgencyScore)
	}
	if task.ID == "" {
		t.Fatal("missing id")
	}
}

func TestCreate_OrderIncrements(t *testing.T) {
	svc, _ := newTestCatalog()

	first := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "a"})
	second := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "b"})

	if first.Order != 1 || second.Order != 2 {
		t.Fatalf("orders = %d, %d; want 1, 2", first.Order, second.Order)
	}

	// orders are per owner
	other := mustCreate(t, svc, ownerB, CreateTaskInput{Title: "c"})
	if other.Order != 1 {
		t.Fatalf("other owner's first order = %d; want 1", other.Order)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()

	if _, err := svc.Create(ctx, ownerA, CreateTaskInput{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("empty title: got %v; want ErrInvalidArgument", err)
	}
	if _, err := svc.Create(ctx, ownerA, CreateTaskInput{Title: "t", Priority: "Urgent"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("bad priority: got %v; want ErrInvalidArgument", err)
	}
}

func TestCreate_EndDateBeforeDueDateIsAccepted(t *testing.T) {
	// end >= due is a client-side concern; the server does not enforce it
	svc, _ := newTestCatalog()
	due := testNow.Add(48 * time.Hour)
	end := due.Add(-time.Hour)

	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "t", DueDate: &due, EndDate: &end})
	if !task.EndDate.Equal(end) {
		t.Fatalf("end date was altered: %v", task.EndDate)
	}
}

func TestCreate_WeeklySeries(t *testing.T) {
	svc, _ := newTestCatalog()
	due := testNow.Add(24 * time.Hour)

	first := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "standup", DueDate: &due, Recurrence: "weekly"})
	if first.RecurrenceID == nil {
		t.Fatal("first instance missing series id")
	}
	if !first.DueDate.Equal(due) {
		t.Fatalf("first instance due %v; want %v", first.DueDate, due)
	}

	tasks, err := svc.List(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 52 {
		t.Fatalf("expected 52 instances, got %d", len(tasks))
	}

	for i, task := range tasks {
		if task.RecurrenceID == nil || *task.RecurrenceID != *first.RecurrenceID {
			t.Fatalf("instance %d not in the series", i)
		}
		if task.Order != i+1 {
			t.Fatalf("instance %d order = %d; want %d", i, task.Order, i+1)
		}
		if i > 0 {
			if got := task.DueDate.Sub(*tasks[i-1].DueDate); got != 7*24*time.Hour {
				t.Fatalf("instance %d spacing %v; want 168h", i, got)
			}
		}
	}
}

func TestCreate_UnknownRecurrenceBecomesStandalone(t *testing.T) {
	svc, _ := newTestCatalog()

	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "t", Recurrence: "fortnightly"})
	if task.Recurrence != domain.RecurrenceNone || task.RecurrenceID != nil {
		t.Fatalf("unknown recurrence should coerce to none, got %s", task.Recurrence)
	}

	tasks, _ := svc.List(context.Background(), ownerA)
	if len(tasks) != 1 {
		t.Fatalf("expected a single task, got %d", len(tasks))
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	svc, _ := newTestCatalog()
	due := testNow.Add(24 * time.Hour)
	task := mustCreate(t, svc, ownerA, CreateTaskInput{
		Title:       "original",
		Description: "keep or clear",
		DueDate:     &due,
		Priority:    domain.PriorityLow,
		Tags:        []string{"a"},
	})

	empty := ""
	done := true
	updated, err := svc.Update(context.Background(), ownerA, task.ID, UpdateTaskInput{
		Description: &empty,
		IsCompleted: &done,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Description != "" {
		t.Fatal("explicit empty description was not applied")
	}
	if !updated.IsCompleted {
		t.Fatal("isCompleted not applied")
	}
	if updated.Title != "original" || updated.Priority != domain.PriorityLow {
		t.Fatal("absent fields must stay untouched")
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "a" {
		t.Fatalf("tags changed: %v", updated.Tags)
	}
}

func TestUpdate_PriorityRaiseIncreasesScore(t *testing.T) {
	svc, _ := newTestCatalog()
	due := testNow.Add(24 * time.Hour)
	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "t", DueDate: &due, Priority: domain.PriorityLow})

	high := domain.PriorityHigh
	updated, err := svc.Update(context.Background(), ownerA, task.ID, UpdateTaskInput{Priority: &high})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UrgencyScore <= task.UrgencyScore {
		t.Fatalf("score %v -> %v; want strict increase", task.UrgencyScore, updated.UrgencyScore)
	}
	if !updated.DueDate.Equal(due) {
		t.Fatal("due date must be unchanged")
	}
}

func TestUpdate_ClearDueDate(t *testing.T) {
	svc, _ := newTestCatalog()
	due := testNow.Add(24 * time.Hour)
	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "t", DueDate: &due})

	updated, err := svc.Update(context.Background(), ownerA, task.ID, UpdateTaskInput{DueDateSet: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DueDate != nil {
		t.Fatal("due date not cleared")
	}
	if updated.UrgencyScore != Urgency(nil, domain.PriorityMedium, testNow) {
		t.Fatalf("score %v not recomputed for cleared due date", updated.UrgencyScore)
	}
}

func TestUpdate_NilTagsBecomeEmptySlice(t *testing.T) {
	svc, _ := newTestCatalog()
	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "t", Tags: []string{"home"}})

	var nilTags []string
	updated, err := svc.Update(context.Background(), ownerA, task.ID, UpdateTaskInput{Tags: &nilTags})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Tags == nil || len(updated.Tags) != 0 {
		t.Fatalf("tags = %#v; want empty non-nil slice", updated.Tags)
	}
}

func TestUpdate_OwnershipGuards(t *testing.T) {
	svc, _ := newTestCatalog()
	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "mine"})
	ctx := context.Background()
	title := "stolen"

	if _, err := svc.Update(ctx, ownerB, task.ID, UpdateTaskInput{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner: got %v; want ErrForbidden", err)
	}
	if _, err := svc.Update(ctx, ownerA, "no-such-id", UpdateTaskInput{Title: &title}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("missing id: got %v; want ErrTaskNotFound", err)
	}
}

func TestDelete_SingleInstanceLeavesSeries(t *testing.T) {
	svc, _ := newTestCatalog()
	due := testNow.Add(24 * time.Hour)
	mustCreate(t, svc, ownerA, CreateTaskInput{Title: "standup", DueDate: &due, Recurrence: "weekly"})

	ctx := context.Background()
	tasks, _ := svc.List(ctx, ownerA)
	victim := tasks[10]

	if err := svc.Delete(ctx, ownerA, victim.ID, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, _ := svc.List(ctx, ownerA)
	if len(remaining) != 51 {
		t.Fatalf("expected 51 instances left, got %d", len(remaining))
	}
	for _, task := range remaining {
		if task.ID == victim.ID {
			t.Fatal("deleted instance still listed")
		}
	}
}

func TestDelete_SeriesScope(t *testing.T) {
	svc, _ := newTestCatalog()
	due := testNow.Add(24 * time.Hour)
	mustCreate(t, svc, ownerA, CreateTaskInput{Title: "standup", DueDate: &due, Recurrence: "weekly"})
	keeper := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "standalone"})
	foreign := mustCreate(t, svc, ownerB, CreateTaskInput{Title: "other owner"})

	ctx := context.Background()
	tasks, _ := svc.List(ctx, ownerA)
	if err := svc.Delete(ctx, ownerA, tasks[0].ID, "series"); err != nil {
		t.Fatalf("delete series: %v", err)
	}

	remaining, _ := svc.List(ctx, ownerA)
	if len(remaining) != 1 || remaining[0].ID != keeper.ID {
		t.Fatalf("expected only the standalone task, got %d tasks", len(remaining))
	}

	others, _ := svc.List(ctx, ownerB)
	if len(others) != 1 || others[0].ID != foreign.ID {
		t.Fatal("series delete touched another owner")
	}
}

func TestDelete_SeriesScopeOnStandaloneTask(t *testing.T) {
	svc, _ := newTestCatalog()
	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "plain"})

	// scope=series without a recurrence id degrades to single delete
	if err := svc.Delete(context.Background(), ownerA, task.ID, "series"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, _ := svc.List(context.Background(), ownerA)
	if len(remaining) != 0 {
		t.Fatalf("expected empty list, got %d", len(remaining))
	}
}

func TestDelete_OwnershipGuards(t *testing.T) {
	svc, _ := newTestCatalog()
	task := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "mine"})
	ctx := context.Background()

	if err := svc.Delete(ctx, ownerB, task.ID, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner: got %v; want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, ownerA, "no-such-id", ""); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("missing id: got %v; want ErrTaskNotFound", err)
	}
}

func TestReorder(t *testing.T) {
	svc, _ := newTestCatalog()
	a := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "a"})
	b := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "b"})
	c := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "c"})

	ctx := context.Background()
	if err := svc.Reorder(ctx, ownerA, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	tasks, _ := svc.List(ctx, ownerA)
	got := []string{tasks[0].ID, tasks[1].ID, tasks[2].ID}
	want := []string{c.ID, a.ID, b.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %s; want %s", i, got[i], want[i])
		}
	}
}

func TestReorder_ForeignIdsIgnored(t *testing.T) {
	svc, _ := newTestCatalog()
	mine := mustCreate(t, svc, ownerA, CreateTaskInput{Title: "mine"})
	foreign := mustCreate(t, svc, ownerB, CreateTaskInput{Title: "theirs"})

	ctx := context.Background()
	if err := svc.Reorder(ctx, ownerA, []string{foreign.ID, mine.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	others, _ := svc.List(ctx, ownerB)
	if others[0].Order != foreign.Order {
		t.Fatal("reorder touched a task of another owner")
	}

	tasks, _ := svc.List(ctx, ownerA)
	if tasks[0].Order != 1 {
		t.Fatalf("own task order = %d; want 1 (its position in the request)", tasks[0].Order)
	}
}

func TestReorder_EmptyListIsNoop(t *testing.T) {
	svc, _ := newTestCatalog()
	if err := svc.Reorder(context.Background(), ownerA, nil); err != nil {
		t.Fatalf("empty reorder: %v", err)
	}
}
