// Package admin wraps the administrator-only platform surface: account
// management, seller-application review and the exchange-rate table. Every
// call is guarded locally by role before it reaches the server.
package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestore/storefront/internal/domain/currency"
	"github.com/shoestore/storefront/internal/domain/identity"
	"github.com/shoestore/storefront/internal/domain/shared"
)

// API is the slice of the platform client the admin service needs.
type API interface {
	ListUsers(ctx context.Context) ([]identity.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role identity.Role) (*identity.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	ListSellerRequests(ctx context.Context) ([]identity.SellerRequest, error)
	ApproveSellerRequest(ctx context.Context, requestID int64) error
	RejectSellerRequest(ctx context.Context, requestID int64, reason string) error
	UpdateCurrencyRates(ctx context.Context, rates map[string]decimal.Decimal) error
}

// Session identifies the caller.
type Session interface {
	Authenticated() bool
	User() identity.User
}

// Service is the admin console backend.
type Service struct {
	api     API
	session Session
	logger  *zap.Logger
}

// NewService creates an admin service.
func NewService(apiClient API, session Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: apiClient, session: session, logger: logger}
}

// Users lists every account on the platform.
func (s *Service) Users(ctx context.Context) ([]identity.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.api.ListUsers(ctx)
}

// SetRole changes an account's role. Admins cannot demote themselves; the
// console would lock itself out.
func (s *Service) SetRole(ctx context.Context, userID int64, role identity.Role) (*identity.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrInvalidInput, role)
	}
	if userID == s.session.User().ID && role != identity.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot change your own role", shared.ErrInvalidInput)
	}
	u, err := s.api.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("role updated", zap.Int64("user", userID), zap.String("role", string(role)))
	return u, nil
}

// RemoveUser deletes an account. Self-deletion is rejected locally.
func (s *Service) RemoveUser(ctx context.Context, userID int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if userID == s.session.User().ID {
		return fmt.Errorf("%w: cannot delete your own account", shared.ErrInvalidInput)
	}
	return s.api.DeleteUser(ctx, userID)
}

// SellerRequests lists pending seller applications.
func (s *Service) SellerRequests(ctx context.Context) ([]identity.SellerRequest, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.api.ListSellerRequests(ctx)
}

// ApproveSeller approves a seller application.
func (s *Service) ApproveSeller(ctx context.Context, requestID int64) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.api.ApproveSellerRequest(ctx, requestID); err != nil {
		return err
	}
	s.logger.Info("seller application approved", zap.Int64("request", requestID))
	return nil
}

// RejectSeller rejects a seller application with a reason for the applicant.
func (s *Service) RejectSeller(ctx context.Context, requestID int64, reason string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	return s.api.RejectSellerRequest(ctx, requestID, reason)
}

// SetRates replaces exchange-rate values. The base currency is pinned at 1
// and cannot be changed; every rate must be positive.
func (s *Service) SetRates(ctx context.Context, rates map[string]decimal.Decimal) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if len(rates) == 0 {
		return fmt.Errorf("%w: no rates given", shared.ErrInvalidInput)
	}
	for code, rate := range rates {
		if code == currency.BaseCurrency {
			return fmt.Errorf("%w: the %s rate is fixed at 1", shared.ErrInvalidInput, currency.BaseCurrency)
		}
		if rate.Sign() <= 0 {
			return fmt.Errorf("%w: rate for %s must be positive", shared.ErrInvalidInput, code)
		}
	}
	return s.api.UpdateCurrencyRates(ctx, rates)
}

func (s *Service) requireAdmin() error {
	if !s.session.Authenticated() {
		return fmt.Errorf("%w: sign in first", shared.ErrUnauthorized)
	}
	if !s.session.User().IsAdmin() {
		return fmt.Errorf("%w: administrator access required", shared.ErrForbidden)
	}
	return nil
}
