package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Client represents a single websocket client connection.
// The network connection itself is owned by the ws handler. Send must not
// block on the network.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active connections and delivers change events to them.
// Every event goes to the clients of its owner and to every connected
// manager.
type Hub struct {
	mu       sync.RWMutex
	users    map[int64]map[Client]struct{}
	managers map[Client]struct{}
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		users:    make(map[int64]map[Client]struct{}),
		managers: make(map[Client]struct{}),
		logger:   logger,
	}
}

// Register adds a client under a user id.
func (h *Hub) Register(userID int64, manager bool, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if manager {
		h.managers[client] = struct{}{}
		return
	}
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]struct{})
	}
	h.users[userID][client] = struct{}{}
}

// Unregister removes a client; a user with no clients left is dropped.
func (h *Hub) Unregister(userID int64, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.managers, client)
	if clients, ok := h.users[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.users, userID)
		}
	}
}

// Connected returns the number of registered clients.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.managers)
	for _, clients := range h.users {
		n += len(clients)
	}
	return n
}

// Deliver sends the event to its owner and to every manager. Recipients are
// collected under the lock and written to outside it, so a slow client never
// holds up registration.
func (h *Hub) Deliver(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event", slog.String("type", string(event.Type)), slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	recipients := make([]Client, 0, len(h.users[event.UserID])+len(h.managers))
	for c := range h.users[event.UserID] {
		recipients = append(recipients, c)
	}
	for c := range h.managers {
		recipients = append(recipients, c)
	}
	h.mu.RUnlock()

	for _, c := range recipients {
		h.send(c, message)
	}
}

func (h *Hub) send(c Client, message []byte) {
	if !c.Send(message) {
		// the handler's read loop notices the broken connection and unregisters
		h.logger.Debug("websocket send failed")
	}
}
