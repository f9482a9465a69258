// internal/accounts/service.go
package accounts

import "context"

// Service defines the interface for the account registry.
type Service interface {
	Register(ctx context.Context, login, password, name, nationalID, email string, admin bool) (*Account, error)
	Authenticate(ctx context.Context, login, password string) (*Account, error)
	Get(ctx context.Context, login string) (*Account, error)
}
