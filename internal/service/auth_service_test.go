package service

import (
	"context"
	"errors"
	"testing"

	"smarttasker/internal/domain"
	"smarttasker/internal/repository/memory"
)

func init() {
	InitJWT("test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	auth := NewAuthService(memory.NewUserStore())
	ctx := context.Background()

	user, token, err := auth.Register(ctx, "Alice", "Alice@Example.com", "s3cret99")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.PasswordHash == "s3cret99" {
		t.Fatal("password stored in plain text")
	}

	uid, err := ParseJWT(token)
	if err != nil || uid != user.ID {
		t.Fatalf("token does not resolve to the user: uid=%d err=%v", uid, err)
	}

	logged, token2, err := auth.Login(ctx, "alice@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID || token2 == "" {
		t.Fatal("login returned wrong user or empty token")
	}
}

func TestRegister_Validation(t *testing.T) {
	auth := NewAuthService(memory.NewUserStore())
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, "", "a@b.c", "longenough"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("empty name: got %v", err)
	}
	if _, _, err := auth.Register(ctx, "A", "a@b.c", "short"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("short password: got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth := NewAuthService(memory.NewUserStore())
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, "A", "dup@example.com", "s3cret99"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := auth.Register(ctx, "B", "dup@example.com", "s3cret99"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate: got %v; want ErrEmailTaken", err)
	}
}

// Стор, у которого предварительная проверка email всегда промахивается:
// дубликат ловится только на вставке, как UNIQUE-констрейнт при гонке
// двух одновременных регистраций.
type raceUserStore struct {
	*memory.UserStore
}

func (s *raceUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("user not found")
}

func TestRegister_DuplicateCaughtOnInsert(t *testing.T) {
	auth := NewAuthService(&raceUserStore{memory.NewUserStore()})
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, "A", "race@example.com", "s3cret99"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := auth.Register(ctx, "B", "race@example.com", "s3cret99"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("insert-time duplicate: got %v; want ErrEmailTaken", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	auth := NewAuthService(memory.NewUserStore())
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, "A", "a@example.com", "s3cret99"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// unknown email and wrong password are indistinguishable
	if _, _, err := auth.Login(ctx, "nobody@example.com", "s3cret99"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
	if _, _, err := auth.Login(ctx, "a@example.com", "wrong"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
}
