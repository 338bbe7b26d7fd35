// Package identity handles sign-in, sign-up and the local session that the
// rest of the store keys off. Logging in hydrates the cart from the server;
// logging out drops the local cart without touching the server copy.
package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domidentity "github.com/shoestore/storefront/internal/domain/identity"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/infrastructure/api"
)

// API is the slice of the platform client the identity service needs.
type API interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Me(ctx context.Context) (*domidentity.User, error)
	UpdateProfile(ctx context.Context, name, email string) (*domidentity.User, error)
	RequestSeller(ctx context.Context, shopName, reason string) (*domidentity.SellerRequest, error)
}

// SessionStore persists the token+user pair between runs.
type SessionStore interface {
	Set(token string, user domidentity.User) error
	Clear() error
	Authenticated() bool
	User() domidentity.User
}

// Cart is notified when the session changes hands.
type Cart interface {
	Init(ctx context.Context) error
	Reset()
}

// Service drives authentication and profile operations.
type Service struct {
	api     API
	session SessionStore
	cart    Cart
	logger  *zap.Logger
}

// NewService creates an identity service.
func NewService(apiClient API, session SessionStore, cart Cart, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: apiClient, session: session, cart: cart, logger: logger}
}

// Login signs in, persists the session and loads the user's server cart.
// A cart that fails to load does not fail the login.
func (s *Service) Login(ctx context.Context, email, password string) (*domidentity.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}
	resp, err := s.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.session.Set(resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	if s.cart != nil {
		if cartErr := s.cart.Init(ctx); cartErr != nil {
			s.logger.Warn("cart not loaded after login", zap.Error(cartErr))
		}
	}
	s.logger.Info("signed in", zap.Int64("user", resp.User.ID), zap.String("role", string(resp.User.Role)))
	return &resp.User, nil
}

// Register creates an account and signs straight into it.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domidentity.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", shared.ErrInvalidInput)
	}
	resp, err := s.api.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.session.Set(resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	if s.cart != nil {
		if cartErr := s.cart.Init(ctx); cartErr != nil {
			s.logger.Warn("cart not loaded after registration", zap.Error(cartErr))
		}
	}
	return &resp.User, nil
}

// Logout clears the persisted session and the local cart. The server cart
// is left alone so it is there again on the next login.
func (s *Service) Logout() error {
	if err := s.session.Clear(); err != nil {
		return err
	}
	if s.cart != nil {
		s.cart.Reset()
	}
	s.logger.Info("signed out")
	return nil
}

// Current returns the locally known user, refreshed from the server when a
// session is active. A stale token surfaces as ErrUnauthorized.
func (s *Service) Current(ctx context.Context) (*domidentity.User, error) {
	if !s.session.Authenticated() {
		return nil, fmt.Errorf("%w: not signed in", shared.ErrUnauthorized)
	}
	u, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes the display fields on the account and in the local
// session.
func (s *Service) UpdateProfile(ctx context.Context, name, email string) (*domidentity.User, error) {
	if !s.session.Authenticated() {
		return nil, fmt.Errorf("%w: not signed in", shared.ErrUnauthorized)
	}
	u, err := s.api.UpdateProfile(ctx, name, email)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RequestSeller files a seller application for the signed-in customer.
func (s *Service) RequestSeller(ctx context.Context, shopName, reason string) (*domidentity.SellerRequest, error) {
	if !s.session.Authenticated() {
		return nil, fmt.Errorf("%w: not signed in", shared.ErrUnauthorized)
	}
	if s.session.User().Role != domidentity.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can apply to sell", shared.ErrInvalidState)
	}
	if shopName == "" {
		return nil, fmt.Errorf("%w: shop name is required", shared.ErrInvalidInput)
	}
	return s.api.RequestSeller(ctx, shopName, reason)
}
