package realtime

import (
	"context"
	"time"
)

type EventType string

const (
	ObjectiveCreated EventType = "objective_created"
	ObjectiveUpdated EventType = "objective_updated"
	ObjectiveDeleted EventType = "objective_deleted"
	TaskCreated      EventType = "task_created"
	TaskUpdated      EventType = "task_updated"
	TaskDeleted      EventType = "task_deleted"
	EmployeeCreated  EventType = "employee_created"
	AreaCreated      EventType = "area_created"
	DataImported     EventType = "data_imported"
)

// Event tells clients that something changed and they should refetch.
// Version increases with every write the publishing instance performs.
type Event struct {
	Type    EventType `json:"type"`
	Entity  string    `json:"entity"`
	ID      string    `json:"id"`
	UserID  int64     `json:"userId,omitempty"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

// Publisher distributes change events to connected clients.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LocalPublisher delivers events to a single in-process hub.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, event Event) error {
	p.hub.Deliver(event)
	return nil
}

// Discard drops every event. Used by the CLI and tests.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
