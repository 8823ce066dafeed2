package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"smarttasker/internal/domain"
)

// UserStore is an in-memory service.UserStore for tests.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[int64]*domain.User)}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}

	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.New("user not found")
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *u
	return &cp, nil
}
