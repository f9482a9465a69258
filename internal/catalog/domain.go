// internal/catalog/domain.go
package catalog

import (
	"errors"
	"time"
)

var (
	ErrPermissionDenied = errors.New("only administrators may register events")
	ErrEventExists      = errors.New("an event with this name already exists")
	ErrEventNotFound    = errors.New("event not found")
	ErrSeatUnavailable  = errors.New("seat unavailable")
)

// Event is a dated occasion with a pool of sellable seats. The Active flag is
// captured once at construction (event date not yet past) and never
// recomputed afterwards.
type Event struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`

	seats []string
}

// NewEvent constructs an event, fixing Active against the supplied instant.
func NewEvent(name, description string, date, now time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Date:        date,
		Active:      !date.Before(now),
		CreatedAt:   now,
	}
}

// AddSeat adds a seat to the pool. Idempotent: a seat already present is left
// alone, and insertion order is preserved.
func (e *Event) AddSeat(seatID string) {
	if e.HasSeat(seatID) {
		return
	}
	e.seats = append(e.seats, seatID)
}

// RemoveSeat removes a seat from the pool. Idempotent: an absent seat is a
// no-op.
func (e *Event) RemoveSeat(seatID string) {
	for i, s := range e.seats {
		if s == seatID {
			e.seats = append(e.seats[:i], e.seats[i+1:]...)
			return
		}
	}
}

// HasSeat reports whether the seat is currently in the pool.
func (e *Event) HasSeat(seatID string) bool {
	for _, s := range e.seats {
		if s == seatID {
			return true
		}
	}
	return false
}

// AvailableSeats returns a copy of the seat pool in insertion order.
func (e *Event) AvailableSeats() []string {
	out := make([]string, len(e.seats))
	copy(out, e.seats)
	return out
}

// snapshot returns a copy safe to hand to callers; the seat slice is detached
// from the canonical event.
func (e *Event) snapshot() *Event {
	c := *e
	c.seats = e.AvailableSeats()
	return &c
}
