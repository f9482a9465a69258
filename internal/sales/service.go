// internal/sales/service.go
package sales

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for ticket sales.
type Service interface {
	PurchaseTicket(ctx context.Context, login, eventName, seatID string) (*Ticket, error)
	CancelPurchase(ctx context.Context, login string, ticketID uuid.UUID) (bool, error)
	ListPurchasedTickets(ctx context.Context, login string) ([]*Ticket, error)
	ReinstateTicket(ctx context.Context, login string, ticketID uuid.UUID) error
}
