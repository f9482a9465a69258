// internal/payment/payment.go
package payment

import "time"

// Method is a payment capability. Verify reports whether the supplied secret
// authorizes a charge at the given moment; each variant defines its own
// contract, selected at construction and invoked uniformly.
type Method interface {
	Verify(secret string, now time.Time) bool
	Label() string
}

// Card is a credit or debit card. Verification requires the secret to match
// the stored CVV and the expiry date to be strictly in the future.
type Card struct {
	number string
	cvv    string
	expiry time.Time
	credit bool
}

// NewCard creates a card payment method. credit distinguishes credit from
// debit cards; it does not affect verification.
func NewCard(number, cvv string, expiry time.Time, credit bool) *Card {
	return &Card{
		number: number,
		cvv:    cvv,
		expiry: expiry,
		credit: credit,
	}
}

func (c *Card) Verify(secret string, now time.Time) bool {
	return secret == c.cvv && c.expiry.After(now)
}

func (c *Card) Label() string {
	if c.credit {
		return "credit card"
	}
	return "debit card"
}

// Credit reports whether the card is a credit card.
func (c *Card) Credit() bool {
	return c.credit
}

// Cash always verifies; it carries no secret to check.
type Cash struct{}

func NewCash() Cash {
	return Cash{}
}

func (Cash) Verify(string, time.Time) bool {
	return true
}

func (Cash) Label() string {
	return "cash"
}

// Voucher verifies by exact code match.
type Voucher struct {
	code string
}

func NewVoucher(code string) *Voucher {
	return &Voucher{code: code}
}

func (v *Voucher) Verify(secret string, _ time.Time) bool {
	return secret == v.code
}

func (v *Voucher) Label() string {
	return "voucher"
}
