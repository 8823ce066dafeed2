package handlers

import (
	"net/http"

	"smarttasker/internal/http/middleware"
	"smarttasker/internal/service"

	"github.com/gin-gonic/gin"
)

type BreakdownRequest struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

// AIBreakdown разбивает задачу на шаги. Можно передать просто title (шаги
// только в ответе) или taskId - тогда шаги сохраняются в aiSuggestions
// задачи с обычной проверкой владельца.
func (h *Handler) AIBreakdown(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req BreakdownRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	title := req.Title
	if req.TaskID != "" && title == "" {
		task, err := h.Tasks.Get(c.Request.Context(), userID, req.TaskID)
		if err != nil {
			respondError(c, err)
			return
		}
		title = task.Title
	}
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or taskId is required"})
		return
	}

	steps := service.GenerateBreakdown(title)

	if req.TaskID != "" {
		if _, err := h.Tasks.Update(c.Request.Context(), userID, req.TaskID, service.UpdateTaskInput{
			AISuggestions: &steps,
		}); err != nil {
			respondError(c, err)
			return
		}
		middleware.TaskMutations.WithLabelValues("ai_breakdown").Inc()
		h.Hub.NotifyTasksUpdated(userID, "update", req.TaskID)
	}

	c.JSON(http.StatusOK, gin.H{"steps": steps})
}
