package api

import (
	"context"

	"github.com/shoestore/storefront/internal/domain/identity"
)

// LoginRequest is the credential payload for /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the token+user pair both auth endpoints return.
type AuthResponse struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns a session for it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*identity.User, error) {
	var u identity.User
	if err := c.get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes the authenticated user's display fields.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*identity.User, error) {
	var u identity.User
	body := map[string]string{"name": name, "email": email}
	if err := c.put(ctx, "/users/me", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RequestSeller files an application to become a seller.
func (c *Client) RequestSeller(ctx context.Context, shopName, reason string) (*identity.SellerRequest, error) {
	var req identity.SellerRequest
	body := map[string]string{"shopName": shopName, "reason": reason}
	if err := c.post(ctx, "/users/me/seller-request", body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
