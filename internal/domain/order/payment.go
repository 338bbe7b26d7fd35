package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSession is the short-lived token/URL pair the payment gateway issues
// for one order at one currency and amount. The token is bound to the
// currency at issuance: a currency change makes the session unusable and it
// must be discarded before a replacement is requested.
type PaymentSession struct {
	Token           string          `json:"sessionToken"`
	RedirectURL     string          `json:"paymentUrl"`
	Currency        string          `json:"currency"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	IssuedAt        time.Time       `json:"-"`
}

// MatchesCurrency reports whether the session was issued for the given
// currency and may therefore be reused.
func (s *PaymentSession) MatchesCurrency(currency string) bool {
	return s != nil && s.Currency == currency
}

// PaymentStatus is the gateway-side payment state for an order as reported
// by the status-polling endpoint.
type PaymentStatus struct {
	Status        Status     `json:"status"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaymentTime   *time.Time `json:"paymentTime,omitempty"`
}
