package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shoestore/storefront/internal/domain/currency"
	"github.com/shoestore/storefront/internal/domain/identity"
)

// Admin-only surface. The server enforces the role; these calls simply fail
// with ErrForbidden for everyone else.

// ListUsers returns all platform accounts.
func (c *Client) ListUsers(ctx context.Context) ([]identity.User, error) {
	var users []identity.User
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole changes an account's role.
func (c *Client) UpdateUserRole(ctx context.Context, userID int64, role identity.Role) (*identity.User, error) {
	var u identity.User
	body := map[string]string{"role": string(role)}
	if err := c.patch(ctx, fmt.Sprintf("/admin/users/%d/role", userID), body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/users/%d", userID))
}

// ListSellerRequests returns pending seller applications.
func (c *Client) ListSellerRequests(ctx context.Context) ([]identity.SellerRequest, error) {
	var reqs []identity.SellerRequest
	if err := c.get(ctx, "/admin/seller-requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// ApproveSellerRequest approves a seller application.
func (c *Client) ApproveSellerRequest(ctx context.Context, requestID int64) error {
	return c.post(ctx, fmt.Sprintf("/admin/seller-requests/%d/approve", requestID), nil, nil)
}

// RejectSellerRequest rejects a seller application.
func (c *Client) RejectSellerRequest(ctx context.Context, requestID int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.post(ctx, fmt.Sprintf("/admin/seller-requests/%d/reject", requestID), body, nil)
}

// GetExchangeRates returns the currency table against the fixed base.
func (c *Client) GetExchangeRates(ctx context.Context) ([]currency.ExchangeRate, error) {
	var rates []currency.ExchangeRate
	if err := c.get(ctx, "/currencies", nil, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// UpdateCurrencyRates replaces the rate values for the given codes.
func (c *Client) UpdateCurrencyRates(ctx context.Context, rates map[string]decimal.Decimal) error {
	return c.put(ctx, "/admin/currencies", map[string]interface{}{"rates": rates}, nil)
}
