// internal/accounts/domain.go
package accounts

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLoginTaken            = errors.New("login already taken")
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidCredentials    = errors.New("invalid login or password")
	ErrRegistrationThrottled = errors.New("registration rate limit exceeded")
)

// Account is a registered identity, optionally with administrative
// privilege. Login and Admin are fixed at registration.
type Account struct {
	ID         uuid.UUID `json:"id"`
	Login      string    `json:"login"`
	Name       string    `json:"name"`
	NationalID string    `json:"national_id"`
	Email      string    `json:"email"`
	Admin      bool      `json:"admin"`
	CreatedAt  time.Time `json:"created_at"`

	passwordHash string
	salt         string
}

// Equal reports identity equality: two accounts are the same person when
// login, national ID, and email all match. Other fields do not participate.
func (a *Account) Equal(other *Account) bool {
	if other == nil {
		return false
	}
	return a.Login == other.Login &&
		a.NationalID == other.NationalID &&
		a.Email == other.Email
}

// snapshot returns a copy safe to hand to callers.
func (a *Account) snapshot() *Account {
	c := *a
	return &c
}
