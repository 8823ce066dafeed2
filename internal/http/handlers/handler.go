package handlers

import (
	"errors"
	"net/http"

	"smarttasker/internal/domain"
	"smarttasker/internal/repository"
	"smarttasker/internal/service"
	"smarttasker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB    *pgxpool.Pool
	Tasks *service.TaskService
	Auth  *service.AuthService
	Users service.UserStore
	Hub   *ws.Hub
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub) *Handler {
	users := repository.NewUserRepository(db)
	return &Handler{
		DB:    db,
		Tasks: service.NewTaskService(repository.NewTaskRepository(db)),
		Auth:  service.NewAuthService(users),
		Users: users,
		Hub:   hub,
	}
}

// NewHandlerWithServices wires explicit dependencies (tests use this with
// in-memory stores).
func NewHandlerWithServices(tasks *service.TaskService, auth *service.AuthService, users service.UserStore, hub *ws.Hub) *Handler {
	return &Handler{
		Tasks: tasks,
		Auth:  auth,
		Users: users,
		Hub:   hub,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// respondError мапит ошибки бизнес-логики на HTTP-статусы. Несовпадение
// владельца отвечает 401, отсутствующий id - 404: различие сохранено
// намеренно, клиенты на него завязаны.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authorized"})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
