package ws

import (
	"encoding/json"
	"sync"

	"smarttasker/internal/logger"
)

// Event is pushed to every open session of an owner after a successful
// catalog mutation. Clients react by refetching the list; the event carries
// no task payload on purpose.
type Event struct {
	Type   string `json:"type"`
	Op     string `json:"op,omitempty"`
	TaskID string `json:"taskId,omitempty"`
}

// Hub keeps one room per owner. A room is just the set of live sessions
// authenticated as that owner.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.sessions[c.OwnerID]
	if !ok {
		room = make(map[*Client]struct{})
		h.sessions[c.OwnerID] = room
	}
	room[c] = struct{}{}
	logger.Debug("ws session registered", "owner_id", c.OwnerID, "sessions", len(room))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.sessions[c.OwnerID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.sessions, c.OwnerID)
	}
}

// NotifyTasksUpdated fans a tasks_updated event out to the owner's sessions.
// Slow consumers are skipped, not waited on.
func (h *Hub) NotifyTasksUpdated(ownerID int64, op, taskID string) {
	msg, err := json.Marshal(Event{Type: "tasks_updated", Op: op, TaskID: taskID})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.sessions[ownerID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping event", "owner_id", ownerID)
		}
	}
}

// Sessions returns the number of live sessions for an owner (used in tests).
func (h *Hub) Sessions(ownerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[ownerID])
}
