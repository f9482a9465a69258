// internal/catalog/service.go
package catalog

import (
	"context"
	"time"

	"boxoffice/internal/accounts"
)

// Service defines the interface for the event catalog.
type Service interface {
	RegisterEvent(ctx context.Context, actor *accounts.Account, name, description string, date time.Time) (*Event, error)
	AddSeat(ctx context.Context, eventName, seatID string) error
	TakeSeat(ctx context.Context, eventName, seatID string) error
	ReleaseSeat(ctx context.Context, eventName, seatID string) error
	GetEvent(ctx context.Context, name string) (*Event, error)
	ListAvailableEvents(ctx context.Context) []*Event
}
