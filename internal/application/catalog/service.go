// Package catalog covers browsing the shoe catalog and, for sellers, the
// inventory they list on it.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shoestore/storefront/internal/domain/identity"
	"github.com/shoestore/storefront/internal/domain/order"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/domain/shop"
	"github.com/shoestore/storefront/internal/infrastructure/api"
)

// API is the slice of the platform client the catalog service needs.
type API interface {
	ListShoes(ctx context.Context, filter shop.Filter) ([]shop.Shoe, error)
	GetShoe(ctx context.Context, id int64) (*shop.Shoe, error)
	CreateShoe(ctx context.Context, form api.ShoeForm) (*shop.Shoe, error)
	UpdateShoe(ctx context.Context, id int64, form api.ShoeForm) (*shop.Shoe, error)
	DeleteShoe(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error)
}

// Session identifies the caller for the seller-only surface.
type Session interface {
	Authenticated() bool
	User() identity.User
}

// Service exposes the public catalog and the seller inventory operations.
type Service struct {
	api     API
	session Session
	logger  *zap.Logger
}

// NewService creates a catalog service.
func NewService(apiClient API, session Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: apiClient, session: session, logger: logger}
}

// Browse lists the catalog. No session needed.
func (s *Service) Browse(ctx context.Context, filter shop.Filter) ([]shop.Shoe, error) {
	return s.api.ListShoes(ctx, filter)
}

// Get returns one product by id. No session needed.
func (s *Service) Get(ctx context.Context, id int64) (*shop.Shoe, error) {
	return s.api.GetShoe(ctx, id)
}

// MyListings returns the signed-in seller's products.
func (s *Service) MyListings(ctx context.Context) ([]shop.Shoe, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	all, err := s.api.ListShoes(ctx, shop.Filter{})
	if err != nil {
		return nil, err
	}
	sellerID := s.session.User().ID
	mine := all[:0]
	for _, sh := range all {
		if sh.SellerID == sellerID {
			mine = append(mine, sh)
		}
	}
	return mine, nil
}

// Create lists a new product.
func (s *Service) Create(ctx context.Context, form api.ShoeForm) (*shop.Shoe, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}
	created, err := s.api.CreateShoe(ctx, form)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product listed", zap.Int64("shoe", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update replaces a product's listing fields.
func (s *Service) Update(ctx context.Context, id int64, form api.ShoeForm) (*shop.Shoe, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}
	return s.api.UpdateShoe(ctx, id, form)
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.requireSeller(); err != nil {
		return err
	}
	return s.api.DeleteShoe(ctx, id)
}

// UpdateOrderStatus advances an order through fulfillment. The server owns
// the transition rules; only the status value is checked here.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	if err := s.requireSeller(); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", shared.ErrInvalidInput, status)
	}
	updated, err := s.api.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status updated",
		zap.Int64("order", id), zap.String("status", string(status)))
	return updated, nil
}

func (s *Service) requireSeller() error {
	if !s.session.Authenticated() {
		return fmt.Errorf("%w: sign in first", shared.ErrUnauthorized)
	}
	u := s.session.User()
	if !u.IsSeller() && !u.IsAdmin() {
		return fmt.Errorf("%w: a seller account is required", shared.ErrForbidden)
	}
	return nil
}

func validateForm(form api.ShoeForm) error {
	if form.Name == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrInvalidInput)
	}
	if form.Price.Sign() <= 0 {
		return fmt.Errorf("%w: price must be positive", shared.ErrInvalidInput)
	}
	if form.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", shared.ErrInvalidInput)
	}
	return nil
}
