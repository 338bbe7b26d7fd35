// Package currency holds the exchange-rate table and display conversion.
// Rates are fetched from the server against a fixed base currency and used
// purely for converting displayed totals; the actual payment-session currency
// logic lives with the order lifecycle.
package currency

import (
	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/shared"
)

// BaseCurrency is the fixed base of the rate table. Its rate is always 1 and
// it cannot be edited.
const BaseCurrency = "USD"

// ExchangeRate is one row of the rate table.
type ExchangeRate struct {
	Code string          `json:"code"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// minorUnitDigits returns the number of minor-unit digits for a currency
// code. Currencies without minor units round to whole amounts.
func minorUnitDigits(code string) int32 {
	switch code {
	case "IDR", "JPY", "KRW", "VND":
		return 0
	default:
		return 2
	}
}

// Table is an in-memory view of the server's exchange-rate table.
type Table struct {
	rates map[string]ExchangeRate
}

// NewTable builds a table from the fetched rate rows.
func NewTable(rates []ExchangeRate) *Table {
	t := &Table{rates: make(map[string]ExchangeRate, len(rates))}
	for _, r := range rates {
		t.rates[r.Code] = r
	}
	if _, ok := t.rates[BaseCurrency]; !ok {
		t.rates[BaseCurrency] = ExchangeRate{Code: BaseCurrency, Name: "US Dollar", Rate: decimal.NewFromInt(1)}
	}
	return t
}

// Get returns the rate row for the given code.
func (t *Table) Get(code string) (ExchangeRate, error) {
	r, ok := t.rates[code]
	if !ok {
		return ExchangeRate{}, shared.NewDomainError("UNKNOWN_CURRENCY", "No exchange rate for currency "+code)
	}
	return r, nil
}

// Codes returns all known currency codes.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	return codes
}

// Convert converts a base-currency amount into the given currency: exact
// multiplication by the rate, rounded only to the currency's minor-unit
// convention.
func (t *Table) Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	r, err := t.Get(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(r.Rate).Round(minorUnitDigits(code)), nil
}

// SetRate updates one row. The base currency is locked and rates must be
// positive.
func (t *Table) SetRate(code string, rate decimal.Decimal) error {
	if code == BaseCurrency {
		return shared.NewDomainError("BASE_CURRENCY_LOCKED", "The base currency rate cannot be changed")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	r, ok := t.rates[code]
	if !ok {
		return shared.NewDomainError("UNKNOWN_CURRENCY", "No exchange rate for currency "+code)
	}
	r.Rate = rate
	t.rates[code] = r
	return nil
}

// Rates returns a copy of all rate rows.
func (t *Table) Rates() []ExchangeRate {
	out := make([]ExchangeRate, 0, len(t.rates))
	for _, r := range t.rates {
		out = append(out, r)
	}
	return out
}
