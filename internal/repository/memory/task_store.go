package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"smarttasker/internal/domain"
)

// TaskStore is an in-memory service.TaskStore used by unit tests and local
// development without Postgres. Catalog ordering matches the SQL repository.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	seq   map[string]int
	next  int
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*domain.Task),
		seq:   make(map[string]int),
	}
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			cp := *t
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.UrgencyScore != b.UrgencyScore {
			return a.UrgencyScore > b.UrgencyScore
		}
		// insertion sequence stands in for created_at DESC
		return s.seq[a.ID] > s.seq[b.ID]
	})
	return result, nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TaskStore) MaxOrder(ctx context.Context, ownerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0
	for _, t := range s.tasks {
		if t.OwnerID == ownerID && t.Order > max {
			max = t.Order
		}
	}
	return max, nil
}

func (s *TaskStore) Create(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(t)
	return nil
}

func (s *TaskStore) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		s.insert(t)
	}
	return nil
}

func (s *TaskStore) insert(t *domain.Task) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	s.tasks[t.ID] = &cp
	s.next++
	s.seq[t.ID] = s.next
}

func (s *TaskStore) Update(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	t.UpdatedAt = time.Now()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	delete(s.seq, id)
	return nil
}

func (s *TaskStore) DeleteSeries(ctx context.Context, ownerID int64, recurrenceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.OwnerID == ownerID && t.RecurrenceID != nil && *t.RecurrenceID == recurrenceID {
			delete(s.tasks, id)
			delete(s.seq, id)
		}
	}
	return nil
}

func (s *TaskStore) UpdateOrders(ctx context.Context, ownerID int64, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, id := range ids {
		t, ok := s.tasks[id]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		t.Order = idx
		t.UpdatedAt = time.Now()
	}
	return nil
}
