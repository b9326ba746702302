// Package service implements the OKR operations on top of the store. It
// owns the snapshot cache, checks who may do what and announces every
// change to connected clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"okr-tracker-api/internal/assistant"
	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/cache"
	"okr-tracker-api/internal/metrics"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/realtime"
	"okr-tracker-api/internal/store"
)

// ErrForbidden is returned when the actor may not perform the operation.
var ErrForbidden = errors.New("operation not allowed for this user")

const snapshotKey = "records"

// Actor is the authenticated caller.
type Actor struct {
	EmployeeID int64
	Role       models.Role
}

func (a Actor) IsManager() bool { return a.Role == models.RoleManager }

// ActorFromClaims builds the actor of a validated token.
func ActorFromClaims(c *auth.Claims) Actor {
	return Actor{EmployeeID: c.UserID, Role: c.Role}
}

type Options struct {
	SnapshotTTL time.Duration
	Sessions    *auth.Sessions
	Publisher   realtime.Publisher
	Assistant   *assistant.Assistant
	Logger      *slog.Logger
	Clock       func() time.Time
}

type Service struct {
	store       store.Store
	snapshots   *cache.SimpleCache[string, models.Records]
	snapshotTTL time.Duration
	sessions    *auth.Sessions
	publisher   realtime.Publisher
	assistant   *assistant.Assistant
	logger      *slog.Logger
	clock       func() time.Time
	version     atomic.Uint64
}

func New(st store.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Publisher == nil {
		opts.Publisher = realtime.Discard{}
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.New(assistant.Disabled{}, nil)
	}
	return &Service{
		store:       st,
		snapshots:   cache.NewSimpleCache[string, models.Records](cache.Options{ConcurrencySafe: true, Clock: opts.Clock}),
		snapshotTTL: opts.SnapshotTTL,
		sessions:    opts.Sessions,
		publisher:   opts.Publisher,
		assistant:   opts.Assistant,
		logger:      opts.Logger,
		clock:       opts.Clock,
	}
}

// Records returns the current snapshot, served from the cache while it is
// fresh. Callers must not modify it.
func (s *Service) Records(ctx context.Context) (models.Records, error) {
	return s.snapshots.GetOrLoad(snapshotKey, s.snapshotTTL, func() (models.Records, error) {
		return s.store.Snapshot(ctx)
	})
}

// Invalidate drops the cached snapshot so the next read hits the store.
// Used when another instance reports a write.
func (s *Service) Invalidate() { s.snapshots.Clear() }

// Version is the number of writes this instance has performed.
func (s *Service) Version() uint64 { return s.version.Load() }

func (s *Service) currentYear() int { return s.clock().Year() }

// changed runs after every write attempt. Successful writes drop the whole
// snapshot cache and are announced; failures are only logged.
func (s *Service) changed(ctx context.Context, entity, op string, event realtime.Event, err error) {
	metrics.ObserveMutation(entity, op, err)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrConflict) {
			s.logger.Error("write failed",
				slog.String("entity", entity),
				slog.String("op", op),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	s.snapshots.Clear()
	event.Entity = entity
	event.Version = s.version.Add(1)
	event.At = s.clock()
	if perr := s.publisher.Publish(ctx, event); perr != nil {
		s.logger.Warn("failed to publish change event",
			slog.String("type", string(event.Type)),
			slog.String("error", perr.Error()),
		)
	}
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, store.ErrNotFound)
}
