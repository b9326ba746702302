package assistant

import (
	"fmt"
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// History keeps each user's conversation for the life of the process. The
// oldest messages are dropped past the limit; the greeting always stays.
type History struct {
	mu     sync.Mutex
	limit  int
	byUser map[int64][]Message
}

func NewHistory(limit int) *History {
	if limit < 2 {
		limit = 2
	}
	return &History{limit: limit, byUser: make(map[int64][]Message)}
}

func greeting(user User) Message {
	return Message{Role: RoleAssistant, Content: fmt.Sprintf("Hi %s, how can I help you today?", user.Name)}
}

func (h *History) Append(user User, m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs, ok := h.byUser[user.ID]
	if !ok {
		msgs = []Message{greeting(user)}
	}
	msgs = append(msgs, m)
	if len(msgs) > h.limit {
		msgs = append(msgs[:1], msgs[len(msgs)-h.limit+1:]...)
	}
	h.byUser[user.ID] = msgs
}

// Messages returns a copy of the user's conversation, which starts with a
// greeting even before the first question.
func (h *History) Messages(user User) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs, ok := h.byUser[user.ID]
	if !ok {
		return []Message{greeting(user)}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Forget drops the user's conversation, e.g. on logout.
func (h *History) Forget(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.byUser, userID)
}
