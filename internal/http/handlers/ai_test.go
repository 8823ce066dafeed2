package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"smarttasker/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestAIBreakdown_TitleOnly(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "ai@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/ai/breakdown", token, gin.H{
		"title": "Buy groceries",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("breakdown: status %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Steps []string `json:"steps"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(resp.Steps))
	}
	if !strings.Contains(resp.Steps[0], "Buy groceries") {
		t.Fatalf("first step does not mention the task: %q", resp.Steps[0])
	}
}

func TestAIBreakdown_PersistsToTask(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "ai-persist@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "Team meeting prep"})
	var task domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if len(task.AISuggestions) != 0 {
		t.Fatalf("fresh task already has suggestions: %v", task.AISuggestions)
	}

	w = doJSON(t, r, http.MethodPost, "/api/ai/breakdown", token, gin.H{"taskId": task.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("breakdown: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/tasks", token, nil)
	var tasks []domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tasks) != 1 || len(tasks[0].AISuggestions) != 4 {
		t.Fatalf("suggestions not stored on task: %+v", tasks)
	}
	if !strings.Contains(tasks[0].AISuggestions[0], "agenda") {
		t.Fatalf("meeting task got wrong template: %q", tasks[0].AISuggestions[0])
	}
}

func TestAIBreakdown_OwnershipAndValidation(t *testing.T) {
	r := newTestRouter()
	tokenA := registerUser(t, r, "ai-a@example.com")
	tokenB := registerUser(t, r, "ai-b@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", tokenA, gin.H{"title": "mine"})
	var task domain.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/ai/breakdown", tokenB, gin.H{"taskId": task.ID})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("foreign task: status %d; want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/ai/breakdown", tokenA, gin.H{"taskId": "no-such-id"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing task: status %d; want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/ai/breakdown", tokenA, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty request: status %d; want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/ai/breakdown", "", gin.H{"title": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d; want 401", w.Code)
	}
}
