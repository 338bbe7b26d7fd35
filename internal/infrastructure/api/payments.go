package api

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/order"
)

type generatePaymentRequest struct {
	Currency string `json:"currency"`
}

type generatePaymentResponse struct {
	SessionToken string `json:"sessionToken"`
	PaymentURL   string `json:"paymentUrl"`
	Conversion   struct {
		ExchangeRate    decimal.Decimal `json:"exchangeRate"`
		ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	} `json:"conversion"`
}

// GeneratePaymentSession asks the gateway for a payment session for the
// order in the given currency. The returned token is bound to that currency
// and amount at issuance.
func (c *Client) GeneratePaymentSession(ctx context.Context, orderID int64, currency string) (*order.PaymentSession, error) {
	var resp generatePaymentResponse
	path := fmt.Sprintf("/payments/generate/%d", orderID)
	if err := c.post(ctx, path, generatePaymentRequest{Currency: currency}, &resp); err != nil {
		return nil, err
	}
	return &order.PaymentSession{
		Token:           resp.SessionToken,
		RedirectURL:     resp.PaymentURL,
		Currency:        currency,
		ExchangeRate:    resp.Conversion.ExchangeRate,
		ConvertedAmount: resp.Conversion.ConvertedAmount,
		IssuedAt:        time.Now(),
	}, nil
}

// GetPaymentStatus polls the gateway-side payment state for an order.
func (c *Client) GetPaymentStatus(ctx context.Context, orderID int64) (*order.PaymentStatus, error) {
	var ps order.PaymentStatus
	if err := c.get(ctx, fmt.Sprintf("/payments/status/%d", orderID), nil, &ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

// CancelPayment voids any open payment session for the order on the gateway
// side. Used when a currency change invalidates an issued token.
func (c *Client) CancelPayment(ctx context.Context, orderID int64) error {
	return c.post(ctx, fmt.Sprintf("/payments/cancel/%d", orderID), nil, nil)
}
