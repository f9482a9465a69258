// internal/accounts/implementation.go
package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"boxoffice/internal/clock"
	"boxoffice/internal/monitoring"
)

// service implements the Service interface. Accounts are tracked centrally
// in a login-keyed registry; logins are unique and never reused.
type service struct {
	mu      sync.RWMutex
	clock   clock.Clock
	logger  *zap.Logger
	limiter *rate.Limiter

	byLogin map[string]*Account
}

// Options tunes the account registry.
type Options struct {
	// RegisterInterval and RegisterBurst throttle account registration.
	RegisterInterval time.Duration
	RegisterBurst    int
}

func (o *Options) withDefaults() Options {
	out := Options{RegisterInterval: time.Minute, RegisterBurst: 5}
	if o == nil {
		return out
	}
	if o.RegisterInterval > 0 {
		out.RegisterInterval = o.RegisterInterval
	}
	if o.RegisterBurst > 0 {
		out.RegisterBurst = o.RegisterBurst
	}
	return out
}

// NewService creates a new account registry.
func NewService(clk clock.Clock, logger *zap.Logger, opts *Options) Service {
	o := opts.withDefaults()
	return &service{
		clock:   clk,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(o.RegisterInterval), o.RegisterBurst),
		byLogin: make(map[string]*Account),
	}
}

// Register creates a new account. The login must be unused. The duplicate
// check runs before the limiter and the hash so a taken login costs neither
// throttle budget nor CPU.
func (s *service) Register(ctx context.Context, login, password, name, nationalID, email string, admin bool) (*Account, error) {
	s.mu.RLock()
	_, taken := s.byLogin[login]
	s.mu.RUnlock()
	if taken {
		return nil, fmt.Errorf("%w: %q", ErrLoginTaken, login)
	}

	if !s.limiter.Allow() {
		return nil, ErrRegistrationThrottled
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another registration may have claimed the login since the
	// read lock was dropped.
	if _, ok := s.byLogin[login]; ok {
		return nil, fmt.Errorf("%w: %q", ErrLoginTaken, login)
	}

	account := &Account{
		ID:           uuid.New(),
		Login:        login,
		Name:         name,
		NationalID:   nationalID,
		Email:        email,
		Admin:        admin,
		CreatedAt:    s.clock.Now(),
		passwordHash: passwordHash,
		salt:         salt,
	}
	s.byLogin[login] = account

	monitoring.TrackRegistration()
	s.logger.Info("account registered",
		zap.String("login", login),
		zap.Bool("admin", admin),
	)

	return account.snapshot(), nil
}

// Authenticate verifies a login/password pair and returns the account on
// success.
func (s *service) Authenticate(ctx context.Context, login, password string) (*Account, error) {
	s.mu.RLock()
	account, ok := s.byLogin[login]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}

	match, err := verifyPassword(password, account.salt, account.passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return account.snapshot(), nil
}

// Get returns the account registered under the given login.
func (s *service) Get(ctx context.Context, login string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byLogin[login]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, login)
	}
	return account.snapshot(), nil
}
