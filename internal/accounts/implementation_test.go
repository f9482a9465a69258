package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boxoffice/internal/clock"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts *Options) Service {
	t.Helper()
	if opts == nil {
		opts = &Options{RegisterBurst: 100}
	}
	return NewService(clock.NewFixed(testNow), zap.NewNop(), opts)
}

func TestRegisterAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	account, err := svc.Register(ctx, "jo", "s3cret", "Jo Silva", "123.456.789-00", "jo@example.com", false)
	require.NoError(t, err)
	assert.Equal(t, "jo", account.Login)
	assert.False(t, account.Admin)
	assert.NotEqual(t, "", account.ID.String())

	got, err := svc.Get(ctx, "jo")
	require.NoError(t, err)
	assert.True(t, account.Equal(got))

	_, err = svc.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRegisterDuplicateLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	_, err := svc.Register(ctx, "jo", "one", "Jo", "1", "jo@example.com", false)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "jo", "two", "Other Jo", "2", "jo2@example.com", true)
	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	_, err := svc.Register(ctx, "jo", "s3cret", "Jo", "1", "jo@example.com", false)
	require.NoError(t, err)

	account, err := svc.Authenticate(ctx, "jo", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "jo", account.Login)

	_, err = svc.Authenticate(ctx, "jo", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegistrationThrottled(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &Options{RegisterInterval: time.Minute, RegisterBurst: 2})

	_, err := svc.Register(ctx, "a", "p", "", "", "", false)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "b", "p", "", "", "", false)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "c", "p", "", "", "", false)
	assert.ErrorIs(t, err, ErrRegistrationThrottled)
}

// Rejected duplicate registrations must not consume throttle budget: after any
// number of them the remaining burst still admits new logins.
func TestDuplicateRegistrationKeepsThrottleBudget(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &Options{RegisterInterval: time.Minute, RegisterBurst: 2})

	_, err := svc.Register(ctx, "a", "p", "", "", "", false)
	require.NoError(t, err)

	for range 5 {
		_, err = svc.Register(ctx, "a", "p", "", "", "", false)
		assert.ErrorIs(t, err, ErrLoginTaken)
	}

	_, err = svc.Register(ctx, "b", "p", "", "", "", false)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "c", "p", "", "", "", false)
	assert.ErrorIs(t, err, ErrRegistrationThrottled)
}

func TestAccountEquality(t *testing.T) {
	a := &Account{Login: "jo", Name: "Jo", NationalID: "1", Email: "jo@example.com"}
	b := &Account{Login: "jo", Name: "Joana", NationalID: "1", Email: "jo@example.com", Admin: true}
	c := &Account{Login: "jo", NationalID: "2", Email: "jo@example.com"}

	// Identity is the (login, national ID, email) triple, not full state.
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestPasswordHashing(t *testing.T) {
	hash, salt, err := hashPassword("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	ok, err := verifyPassword("s3cret", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}
