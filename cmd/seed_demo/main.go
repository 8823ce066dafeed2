package main

import (
	"context"
	"log"
	"os"
	"time"

	"smarttasker/internal/domain"
	"smarttasker/internal/repository"
	"smarttasker/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the demo account with a spread of tasks so a fresh install has
// something to show on the dashboard and calendar.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	user, err := users.GetByEmail(ctx, "demo@example.com")
	if err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		user = &domain.User{
			Email:        "demo@example.com",
			Name:         "Demo User",
			PasswordHash: string(hash),
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("create demo user: %v", err)
		}
		log.Printf("created demo user id=%d", user.ID)
	}

	tasks := service.NewTaskService(repository.NewTaskRepository(db))
	now := time.Now()

	seed := []service.CreateTaskInput{
		{
			Title:       "Prepare quarterly report",
			Description: "Collect numbers from the analytics page first",
			DueDate:     ptr(now.Add(26 * time.Hour)),
			Priority:    domain.PriorityHigh,
			Tags:        []string{"work", "reports"},
			Subtasks: []domain.Subtask{
				{Text: "Export charts"},
				{Text: "Write summary"},
			},
		},
		{
			Title:    "Dentist appointment",
			Location: "Main St 14",
			DueDate:  ptr(now.AddDate(0, 0, 5)),
			Priority: domain.PriorityMedium,
			Tags:     []string{"health"},
		},
		{
			Title:    "Read a chapter",
			Priority: domain.PriorityLow,
			Tags:     []string{"personal"},
		},
		{
			Title:      "Weekly review",
			DueDate:    ptr(now.AddDate(0, 0, 2)),
			Priority:   domain.PriorityMedium,
			Tags:       []string{"work"},
			Recurrence: "weekly",
		},
	}

	for _, in := range seed {
		task, err := tasks.Create(ctx, user.ID, in)
		if err != nil {
			log.Fatalf("seed task %q: %v", in.Title, err)
		}
		log.Printf("seeded %q score=%.1f order=%d", task.Title, task.UrgencyScore, task.Order)
	}

	log.Println("done")
}

func ptr(t time.Time) *time.Time { return &t }
