// internal/sales/implementation.go
package sales

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"boxoffice/internal/accounts"
	"boxoffice/internal/catalog"
	"boxoffice/internal/clock"
	"boxoffice/internal/monitoring"
)

// service implements the Service interface. It orchestrates the account
// registry and the event catalog: a purchase takes a seat from the catalog
// and records the ticket against the holder's ledger; a cancellation reverses
// both sides.
type service struct {
	mu     sync.RWMutex
	clock  clock.Clock
	logger *zap.Logger
	tracer trace.Tracer

	accounts accounts.Service
	catalog  catalog.Service

	// ledger holds each account's currently owned tickets in purchase order.
	// issued indexes every ticket ever sold; tickets are deactivated on
	// cancellation, never deleted, which is what allows reinstatement later.
	ledger map[string][]*Ticket
	issued map[uuid.UUID]*Ticket
}

// NewService creates a new sales service instance.
func NewService(accountsSvc accounts.Service, catalogSvc catalog.Service, clk clock.Clock, logger *zap.Logger, tracer trace.Tracer) Service {
	return &service{
		clock:    clk,
		logger:   logger,
		tracer:   tracer,
		accounts: accountsSvc,
		catalog:  catalogSvc,
		ledger:   make(map[string][]*Ticket),
		issued:   make(map[uuid.UUID]*Ticket),
	}
}

// PurchaseTicket issues a ticket for the given seat at the flat price,
// removing the seat from the event's pool. An inactive event still sells:
// the activity flag only filters the available-events listing.
func (s *service) PurchaseTicket(ctx context.Context, login, eventName, seatID string) (*Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "sales.PurchaseTicket", trace.WithAttributes(
		attribute.String("event", eventName),
		attribute.String("seat", seatID),
	))
	defer span.End()

	account, err := s.accounts.Get(ctx, login)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	event, err := s.catalog.GetEvent(ctx, eventName)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.catalog.TakeSeat(ctx, eventName, seatID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.mu.Lock()
	ticket := newTicket(event.Name, event.Date, seatID, account.Login, s.clock.Now())
	s.ledger[account.Login] = append(s.ledger[account.Login], ticket)
	s.issued[ticket.ID] = ticket
	snap := ticket.snapshot()
	s.mu.Unlock()

	monitoring.TrackTicketSold(eventName)
	s.logger.Info("ticket sold",
		zap.String("login", login),
		zap.String("event", eventName),
		zap.String("seat", seatID),
		zap.String("ticket_id", ticket.ID.String()),
	)

	return snap, nil
}

// CancelPurchase removes the ticket from the holder's ledger and returns the
// seat to the event's pool. It reports false, with no side effects, when the
// ticket is not in the holder's ledger. The ticket itself is deactivated only
// while the event is still in the future; a ticket for a past event stays
// active but is removed and its seat released all the same.
func (s *service) CancelPurchase(ctx context.Context, login string, ticketID uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "sales.CancelPurchase", trace.WithAttributes(
		attribute.String("ticket_id", ticketID.String()),
	))
	defer span.End()

	if _, err := s.accounts.Get(ctx, login); err != nil {
		span.RecordError(err)
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := s.ledger[login]
	idx := -1
	for i, t := range tickets {
		if t.ID == ticketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	ticket := tickets[idx]
	s.ledger[login] = append(tickets[:idx], tickets[idx+1:]...)

	deactivated := ticket.Cancel(s.clock.Now())

	if err := s.catalog.ReleaseSeat(ctx, ticket.EventName, ticket.Seat); err != nil {
		// The event cannot have been deleted; log and keep the cancellation.
		s.logger.Error("failed to release seat",
			zap.String("event", ticket.EventName),
			zap.String("seat", ticket.Seat),
			zap.Error(err),
		)
	}

	monitoring.TrackCancellation(ticket.EventName)
	s.logger.Info("purchase cancelled",
		zap.String("login", login),
		zap.String("event", ticket.EventName),
		zap.String("seat", ticket.Seat),
		zap.Bool("ticket_deactivated", deactivated),
	)

	return true, nil
}

// ListPurchasedTickets returns copies of the account's owned tickets in
// purchase order.
func (s *service) ListPurchasedTickets(ctx context.Context, login string) ([]*Ticket, error) {
	if _, err := s.accounts.Get(ctx, login); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := s.ledger[login]
	out := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.snapshot())
	}
	return out, nil
}

// ReinstateTicket reverses a cancellation in one step: the seat is taken back
// from the event's pool and the ticket reactivated and restored to the
// holder's ledger. It refuses foreign holders, active tickets, past events,
// and seats that have since been sold, so ticket and pool state cannot
// diverge.
func (s *service) ReinstateTicket(ctx context.Context, login string, ticketID uuid.UUID) error {
	if _, err := s.accounts.Get(ctx, login); err != nil {
		return err
	}

	s.mu.RLock()
	ticket, ok := s.issued[ticketID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if ticket.Holder != login {
		return ErrNotTicketHolder
	}

	s.mu.RLock()
	active := ticket.active
	s.mu.RUnlock()
	if active {
		return ErrTicketActive
	}
	if !ticket.EventAt.After(s.clock.Now()) {
		return ErrEventPassed
	}

	if err := s.catalog.TakeSeat(ctx, ticket.EventName, ticket.Seat); err != nil {
		return err
	}

	s.mu.Lock()
	if ticket.active {
		// Lost a race with a concurrent reinstatement; give the seat back.
		s.mu.Unlock()
		if err := s.catalog.ReleaseSeat(ctx, ticket.EventName, ticket.Seat); err != nil {
			s.logger.Error("failed to release seat after reinstate race", zap.Error(err))
		}
		return ErrTicketActive
	}
	ticket.active = true
	s.ledger[login] = append(s.ledger[login], ticket)
	s.mu.Unlock()

	s.logger.Info("ticket reinstated",
		zap.String("login", login),
		zap.String("event", ticket.EventName),
		zap.String("seat", ticket.Seat),
	)

	return nil
}
