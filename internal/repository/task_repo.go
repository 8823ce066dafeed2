package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smarttasker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, owner_id, title, description, location, due_date, end_date,
		priority, tags, is_completed, is_all_day, subtasks, ai_suggestions,
		recurrence, recurrence_id, sort_order, urgency_score, created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByOwner возвращает задачи владельца в порядке каталога:
// ручной порядок, затем срочность, затем свежесть.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE owner_id = $1
		 ORDER BY sort_order ASC, urgency_score DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// MaxOrder возвращает максимальный sort_order владельца (0 если задач нет).
func (r *TaskRepository) MaxOrder(ctx context.Context, ownerID int64) (int, error) {
	var max int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM tasks WHERE owner_id = $1`,
		ownerID,
	).Scan(&max)
	return max, err
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return fmt.Errorf("marshal subtasks: %w", err)
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, owner_id, title, description, location, due_date, end_date,
			priority, tags, is_completed, is_all_day, subtasks, ai_suggestions,
			recurrence, recurrence_id, sort_order, urgency_score)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		 RETURNING created_at, updated_at`,
		t.ID, t.OwnerID, t.Title, t.Description, t.Location, t.DueDate, t.EndDate,
		t.Priority, t.Tags, t.IsCompleted, t.IsAllDay, subtasks, t.AISuggestions,
		t.Recurrence, t.RecurrenceID, t.Order, t.UrgencyScore,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// CreateBatch вставляет всю серию одним батчем (один round trip).
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	batch := &pgx.Batch{}
	for _, t := range tasks {
		subtasks, err := json.Marshal(t.Subtasks)
		if err != nil {
			return fmt.Errorf("marshal subtasks: %w", err)
		}
		batch.Queue(
			`INSERT INTO tasks (id, owner_id, title, description, location, due_date, end_date,
				priority, tags, is_completed, is_all_day, subtasks, ai_suggestions,
				recurrence, recurrence_id, sort_order, urgency_score)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
			 RETURNING created_at, updated_at`,
			t.ID, t.OwnerID, t.Title, t.Description, t.Location, t.DueDate, t.EndDate,
			t.Priority, t.Tags, t.IsCompleted, t.IsAllDay, subtasks, t.AISuggestions,
			t.Recurrence, t.RecurrenceID, t.Order, t.UrgencyScore,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for _, t := range tasks {
		if err := br.QueryRow().Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("insert series instance %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return fmt.Errorf("marshal subtasks: %w", err)
	}

	return r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, location = $3, due_date = $4, end_date = $5,
			 priority = $6, tags = $7, is_completed = $8, is_all_day = $9, subtasks = $10,
			 ai_suggestions = $11, recurrence = $12, recurrence_id = $13,
			 sort_order = $14, urgency_score = $15, updated_at = now()
		 WHERE id = $16
		 RETURNING updated_at`,
		t.Title, t.Description, t.Location, t.DueDate, t.EndDate,
		t.Priority, t.Tags, t.IsCompleted, t.IsAllDay, subtasks,
		t.AISuggestions, t.Recurrence, t.RecurrenceID,
		t.Order, t.UrgencyScore, t.ID,
	).Scan(&t.UpdatedAt)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

// DeleteSeries удаляет все задачи серии, только у этого владельца.
func (r *TaskRepository) DeleteSeries(ctx context.Context, ownerID int64, recurrenceID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND recurrence_id = $2`,
		ownerID, recurrenceID,
	)
	return err
}

// UpdateOrders выставляет sort_order = позиция id в списке. Фильтр по
// owner_id отсеивает чужие id молча.
func (r *TaskRepository) UpdateOrders(ctx context.Context, ownerID int64, ids []string) error {
	batch := &pgx.Batch{}
	for idx, id := range ids {
		batch.Queue(
			`UPDATE tasks SET sort_order = $1, updated_at = now()
			 WHERE id = $2 AND owner_id = $3`,
			idx, id, ownerID,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for range ids {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var subtasks []byte
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Location, &t.DueDate, &t.EndDate,
		&t.Priority, &t.Tags, &t.IsCompleted, &t.IsAllDay, &subtasks, &t.AISuggestions,
		&t.Recurrence, &t.RecurrenceID, &t.Order, &t.UrgencyScore, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(subtasks) > 0 {
		if err := json.Unmarshal(subtasks, &t.Subtasks); err != nil {
			return nil, fmt.Errorf("unmarshal subtasks: %w", err)
		}
	}
	if t.Subtasks == nil {
		t.Subtasks = []domain.Subtask{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}
