// internal/sales/domain.go
package sales

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"boxoffice/internal/payment"
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrNotTicketHolder = errors.New("ticket belongs to another account")
	ErrTicketActive    = errors.New("ticket is already active")
	ErrEventPassed     = errors.New("event has already taken place")
	ErrPaymentDeclined = errors.New("payment was declined")
)

// TicketPrice is the flat price charged for every seat.
var TicketPrice = decimal.NewFromInt(100)

// Ticket is proof of purchase binding one seat of one event to one account.
// EventAt carries a copy of the event date; the date never changes after
// registration, so the copy cannot drift.
type Ticket struct {
	ID        uuid.UUID       `json:"id"`
	EventName string          `json:"event_name"`
	EventAt   time.Time       `json:"event_at"`
	Seat      string          `json:"seat"`
	Price     decimal.Decimal `json:"price"`
	Holder    string          `json:"holder"`
	IssuedAt  time.Time       `json:"issued_at"`

	active bool
}

func newTicket(eventName string, eventAt time.Time, seat, holder string, now time.Time) *Ticket {
	return &Ticket{
		ID:        uuid.New(),
		EventName: eventName,
		EventAt:   eventAt,
		Seat:      seat,
		Price:     TicketPrice,
		Holder:    holder,
		IssuedAt:  now,
		active:    true,
	}
}

// Active reports whether the ticket has not been cancelled.
func (t *Ticket) Active() bool {
	return t.active
}

// Cancel deactivates the ticket, but only while it is active and the event
// date is still strictly in the future. It reports whether a state change
// happened.
func (t *Ticket) Cancel(now time.Time) bool {
	if t.active && t.EventAt.After(now) {
		t.active = false
		return true
	}
	return false
}

// snapshot returns a copy safe to hand to callers.
func (t *Ticket) snapshot() *Ticket {
	c := *t
	return &c
}

// Purchase is a receipt tying an account, a ticket, and the payment method
// that settled it. The core purchase operation does not require one; it is
// assembled when a caller supplies payment details.
type Purchase struct {
	ID     uuid.UUID
	Holder string
	Ticket *Ticket
	Method payment.Method
}

// NewPurchase builds a receipt for an issued ticket.
func NewPurchase(holder string, ticket *Ticket, method payment.Method) *Purchase {
	return &Purchase{
		ID:     uuid.New(),
		Holder: holder,
		Ticket: ticket,
		Method: method,
	}
}
