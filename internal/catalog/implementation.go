// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"boxoffice/internal/accounts"
	"boxoffice/internal/clock"
	"boxoffice/internal/monitoring"
)

// service implements the Service interface. All state is in-memory; the mutex
// makes the seat pools safe under concurrent HTTP callers.
type service struct {
	mu     sync.RWMutex
	clock  clock.Clock
	logger *zap.Logger

	events []*Event          // insertion order
	byName map[string]*Event // unique-name index
}

// NewService creates a new catalog service instance.
func NewService(clk clock.Clock, logger *zap.Logger) Service {
	return &service{
		clock:  clk,
		logger: logger,
		byName: make(map[string]*Event),
	}
}

// RegisterEvent creates an event, capturing its active flag against the
// current time. Only administrators may register events, and event names are
// unique.
func (s *service) RegisterEvent(ctx context.Context, actor *accounts.Account, name, description string, date time.Time) (*Event, error) {
	if actor == nil || !actor.Admin {
		return nil, ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrEventExists, name)
	}

	event := NewEvent(name, description, date, s.clock.Now())
	s.events = append(s.events, event)
	s.byName[name] = event

	s.logger.Info("event registered",
		zap.String("event", name),
		zap.Time("date", date),
		zap.Bool("active", event.Active),
	)

	return event.snapshot(), nil
}

// AddSeat adds a seat to the named event's pool. Adding a seat that is
// already present leaves the pool unchanged.
func (s *service) AddSeat(ctx context.Context, eventName, seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.byName[eventName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEventNotFound, eventName)
	}

	event.AddSeat(seatID)
	monitoring.SetSeatsAvailable(eventName, len(event.seats))
	return nil
}

// TakeSeat removes a seat from the pool on behalf of a purchase.
func (s *service) TakeSeat(ctx context.Context, eventName, seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.byName[eventName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEventNotFound, eventName)
	}
	if !event.HasSeat(seatID) {
		return fmt.Errorf("%w: seat %q of event %q", ErrSeatUnavailable, seatID, eventName)
	}

	event.RemoveSeat(seatID)
	monitoring.SetSeatsAvailable(eventName, len(event.seats))
	return nil
}

// ReleaseSeat returns a seat to the pool after a cancellation. Releasing a
// seat that is already in the pool is a no-op.
func (s *service) ReleaseSeat(ctx context.Context, eventName, seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.byName[eventName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrEventNotFound, eventName)
	}

	event.AddSeat(seatID)
	monitoring.SetSeatsAvailable(eventName, len(event.seats))
	return nil
}

// GetEvent returns a snapshot of the named event.
func (s *service) GetEvent(ctx context.Context, name string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEventNotFound, name)
	}
	return event.snapshot(), nil
}

// ListAvailableEvents returns snapshots of every event whose active flag is
// set. The flag is the creation-time value; it is not re-evaluated against
// the current time.
func (s *service) ListAvailableEvents(ctx context.Context) []*Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, event := range s.events {
		if event.Active {
			out = append(out, event.snapshot())
		}
	}
	return out
}
