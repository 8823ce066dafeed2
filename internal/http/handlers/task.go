package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"smarttasker/internal/domain"
	"smarttasker/internal/http/middleware"
	"smarttasker/internal/logger"
	"smarttasker/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	DueDate       *time.Time       `json:"dueDate"`
	EndDate       *time.Time       `json:"endDate"`
	Priority      string           `json:"priority"`
	Tags          []string         `json:"tags"`
	Subtasks      []domain.Subtask `json:"subtasks"`
	AISuggestions []string         `json:"aiSuggestions"`
	IsAllDay      bool             `json:"isAllDay"`
	Recurrence    string           `json:"recurrence"`
}

type ReorderRequest struct {
	Tasks []string `json:"tasks"`
}

// ListTasks возвращает задачи владельца в порядке каталога.
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), userID)
	if err != nil {
		logger.Error("list tasks failed", "error", err, "owner_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get tasks"})
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask создаёт задачу; при recurrence != none материализует серию
// и возвращает только первый экземпляр.
func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID, service.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		DueDate:       req.DueDate,
		EndDate:       req.EndDate,
		Priority:      domain.Priority(req.Priority),
		Tags:          req.Tags,
		Subtasks:      req.Subtasks,
		AISuggestions: req.AISuggestions,
		IsAllDay:      req.IsAllDay,
		Recurrence:    req.Recurrence,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.TaskMutations.WithLabelValues("create").Inc()
	h.Hub.NotifyTasksUpdated(userID, "create", task.ID)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask применяет частичный патч. Поле, присланное явно (в том числе
// пустым или null), применяется; отсутствующее - не трогается.
func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var raw map[string]json.RawMessage
	if err := c.BindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	in, err := buildUpdateInput(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.TaskMutations.WithLabelValues("update").Inc()
	h.Hub.NotifyTasksUpdated(userID, "update", task.ID)
	c.JSON(http.StatusOK, task)
}

// DeleteTask удаляет задачу; ?scope=series удаляет всю серию.
func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	taskID := c.Param("id")
	scope := c.Query("scope")

	if err := h.Tasks.Delete(c.Request.Context(), userID, taskID, scope); err != nil {
		respondError(c, err)
		return
	}

	middleware.TaskMutations.WithLabelValues("delete").Inc()
	h.Hub.NotifyTasksUpdated(userID, "delete", taskID)

	if scope == "series" {
		c.JSON(http.StatusOK, gin.H{"message": "Series deleted", "id": taskID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": taskID})
}

// ReorderTasks выставляет порядок по позиции id в списке.
func (h *Handler) ReorderTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req ReorderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Tasks.Reorder(c.Request.Context(), userID, req.Tasks); err != nil {
		respondError(c, err)
		return
	}

	middleware.TaskMutations.WithLabelValues("reorder").Inc()
	h.Hub.NotifyTasksUpdated(userID, "reorder", "")
	c.JSON(http.StatusOK, gin.H{"message": "Tasks reordered successfully"})
}

// buildUpdateInput переводит сырой JSON-патч в частичный ввод сервиса.
// Ключ со значением null очищает nullable-поле (dueDate, endDate,
// recurrenceId), поэтому присутствие ключа отслеживается отдельно.
func buildUpdateInput(raw map[string]json.RawMessage) (service.UpdateTaskInput, error) {
	var in service.UpdateTaskInput

	if v, ok := raw["title"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return in, err
		}
		in.Title = &s
	}
	if v, ok := raw["description"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return in, err
		}
		in.Description = &s
	}
	if v, ok := raw["location"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return in, err
		}
		in.Location = &s
	}
	if v, ok := raw["isCompleted"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return in, err
		}
		in.IsCompleted = &b
	}
	if v, ok := raw["isAllDay"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return in, err
		}
		in.IsAllDay = &b
	}
	if v, ok := raw["priority"]; ok {
		var p domain.Priority
		if err := json.Unmarshal(v, &p); err != nil {
			return in, err
		}
		in.Priority = &p
	}
	if v, ok := raw["dueDate"]; ok {
		in.DueDateSet = true
		if string(v) != "null" {
			var t time.Time
			if err := json.Unmarshal(v, &t); err != nil {
				return in, err
			}
			in.DueDate = &t
		}
	}
	if v, ok := raw["endDate"]; ok {
		in.EndDateSet = true
		if string(v) != "null" {
			var t time.Time
			if err := json.Unmarshal(v, &t); err != nil {
				return in, err
			}
			in.EndDate = &t
		}
	}
	if v, ok := raw["tags"]; ok && string(v) != "null" {
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			return in, err
		}
		in.Tags = &tags
	}
	if v, ok := raw["subtasks"]; ok && string(v) != "null" {
		var subtasks []domain.Subtask
		if err := json.Unmarshal(v, &subtasks); err != nil {
			return in, err
		}
		in.Subtasks = &subtasks
	}
	if v, ok := raw["aiSuggestions"]; ok {
		var sugg []string
		if err := json.Unmarshal(v, &sugg); err != nil {
			return in, err
		}
		in.AISuggestions = &sugg
	}
	if v, ok := raw["recurrence"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return in, err
		}
		in.Recurrence = &s
	}
	if v, ok := raw["recurrenceId"]; ok && string(v) != "null" {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return in, err
		}
		in.RecurrenceID = &s
	}

	return in, nil
}
