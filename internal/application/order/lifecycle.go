// Package order drives the buyer's side of the order lifecycle: checkout
// from the cart, paying through the gateway widget, polling status and
// cancellation. The server owns every status transition; this service only
// guards locally against requests the server is known to reject.
package order

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestore/storefront/internal/domain/currency"
	domorder "github.com/shoestore/storefront/internal/domain/order"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/domain/shop"
	"github.com/shoestore/storefront/internal/infrastructure/api"
	"github.com/shoestore/storefront/internal/infrastructure/payment"
)

// Shipping methods and their flat fees in base currency.
const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

var expressFee = decimal.NewFromInt(15)

// API is the slice of the platform client the lifecycle service needs.
type API interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*domorder.Order, error)
	ListOrders(ctx context.Context) ([]domorder.Order, error)
	GetOrder(ctx context.Context, id int64) (*domorder.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	GeneratePaymentSession(ctx context.Context, orderID int64, currency string) (*domorder.PaymentSession, error)
	GetPaymentStatus(ctx context.Context, orderID int64) (*domorder.PaymentStatus, error)
	CancelPayment(ctx context.Context, orderID int64) error
	GetExchangeRates(ctx context.Context) ([]currency.ExchangeRate, error)
}

// Cart is the slice of the cart synchronizer used during checkout.
type Cart interface {
	Items() []shop.CartItem
	Total() decimal.Decimal
	IsEmpty() bool
	Clear() error
}

// Session identifies the signed-in buyer.
type Session interface {
	Authenticated() bool
	UserID() int64
}

// Widget opens the gateway's hosted payment page and reports its outcome.
type Widget interface {
	Open(ctx context.Context, sess *domorder.PaymentSession, cb payment.Callbacks) error
}

// Service coordinates checkout, payment and cancellation for one buyer.
type Service struct {
	api     API
	cart    Cart
	session Session
	widget  Widget
	logger  *zap.Logger

	mu sync.Mutex
	// Payment sessions are cached per order and reused only while the
	// display currency still matches the one the token was issued for.
	paySessions map[int64]*domorder.PaymentSession
	rates       *currency.Table
	displayCode string
}

// NewService creates an order lifecycle service. The display currency starts
// at the base currency until rates are loaded and another one is selected.
func NewService(apiClient API, cart Cart, session Session, widget Widget, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:         apiClient,
		cart:        cart,
		session:     session,
		widget:      widget,
		logger:      logger,
		paySessions: make(map[int64]*domorder.PaymentSession),
		displayCode: currency.BaseCurrency,
	}
}

// ShippingFee returns the flat fee for a shipping method.
func ShippingFee(method string) (decimal.Decimal, error) {
	switch method {
	case ShippingStandard, "":
		return decimal.Zero, nil
	case ShippingExpress:
		return expressFee, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown shipping method %q", shared.ErrInvalidInput, method)
	}
}

// Checkout creates an order from the current cart. The cart is cleared only
// after the server accepted the order; a rejected checkout leaves it intact.
func (s *Service) Checkout(ctx context.Context, shippingMethod string) (*domorder.Order, error) {
	if !s.session.Authenticated() {
		return nil, fmt.Errorf("%w: sign in to check out", shared.ErrUnauthorized)
	}
	if s.cart.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", shared.ErrInvalidInput)
	}
	fee, err := ShippingFee(shippingMethod)
	if err != nil {
		return nil, err
	}
	if shippingMethod == "" {
		shippingMethod = ShippingStandard
	}

	items := s.cart.Items()
	lines := make([]api.OrderItemInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, api.OrderItemInput{
			ShoeID:    it.Shoe.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.Shoe.Price,
		})
	}

	req := api.CreateOrderRequest{
		UserID:         s.session.UserID(),
		Total:          s.cart.Total().Add(fee),
		Items:          lines,
		ShippingMethod: shippingMethod,
		ShippingFee:    &fee,
	}
	o, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if clearErr := s.cart.Clear(); clearErr != nil {
		// The order exists either way; an unclearable cart is only noise.
		s.logger.Warn("cart not cleared after checkout", zap.Int64("order", o.ID), zap.Error(clearErr))
	}
	s.logger.Info("order created",
		zap.Int64("order", o.ID),
		zap.String("status", o.Status.String()),
		zap.String("total", o.Total.String()))
	return o, nil
}

// Orders returns the buyer's orders as the server reports them.
func (s *Service) Orders(ctx context.Context) ([]domorder.Order, error) {
	if !s.session.Authenticated() {
		return nil, fmt.Errorf("%w: sign in to view orders", shared.ErrUnauthorized)
	}
	return s.api.ListOrders(ctx)
}

// Refresh fetches the current server state of one order. The result replaces
// whatever the caller knew about the order wholesale.
func (s *Service) Refresh(ctx context.Context, orderID int64) (*domorder.Order, error) {
	return s.api.GetOrder(ctx, orderID)
}

// PaymentStatus polls the gateway-side payment state for an order.
func (s *Service) PaymentStatus(ctx context.Context, orderID int64) (*domorder.PaymentStatus, error) {
	return s.api.GetPaymentStatus(ctx, orderID)
}

// Pay runs one payment attempt for the order: it obtains a payment session
// in the selected display currency, opens the gateway widget and, once the
// widget reports back, re-polls the order. The widget outcome itself never
// mutates local state; the refreshed order is the only source of truth.
func (s *Service) Pay(ctx context.Context, orderID int64) (*domorder.Order, error) {
	o, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanPay() {
		return nil, fmt.Errorf("%w: order %d is %s", shared.ErrInvalidState, orderID, o.Status)
	}

	paySess, err := s.ensurePaymentSession(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var gatewayErr error
	err = s.widget.Open(ctx, paySess, payment.Callbacks{
		OnSuccess: func() {
			s.logger.Info("gateway reported payment success", zap.Int64("order", orderID))
		},
		OnPending: func() {
			s.logger.Info("gateway reported payment pending", zap.Int64("order", orderID))
		},
		OnError: func(e error) {
			gatewayErr = e
			s.logger.Warn("gateway reported payment failure", zap.Int64("order", orderID), zap.Error(e))
			// The session may be consumed; force a fresh one on retry.
			s.dropPaymentSession(orderID)
		},
		OnClose: func() {
			s.logger.Info("payment widget closed", zap.Int64("order", orderID))
		},
	})
	if err != nil {
		return nil, err
	}

	refreshed, pollErr := s.api.GetOrder(ctx, orderID)
	if pollErr != nil {
		return nil, pollErr
	}
	if refreshed.Status == domorder.StatusPaid || refreshed.Status.IsTerminal() {
		s.dropPaymentSession(orderID)
	}
	return refreshed, gatewayErr
}

// ensurePaymentSession returns a payment session for the order in the
// current display currency. A cached session is reused only if its currency
// still matches; otherwise the old token is cancelled on the gateway before
// a new one is requested.
func (s *Service) ensurePaymentSession(ctx context.Context, orderID int64) (*domorder.PaymentSession, error) {
	s.mu.Lock()
	code := s.displayCode
	cached := s.paySessions[orderID]
	s.mu.Unlock()

	if cached != nil && cached.MatchesCurrency(code) {
		return cached, nil
	}
	if cached != nil {
		if err := s.api.CancelPayment(ctx, orderID); err != nil {
			return nil, fmt.Errorf("invalidating payment session: %w", err)
		}
		s.dropPaymentSession(orderID)
		s.logger.Info("payment session invalidated after currency change",
			zap.Int64("order", orderID),
			zap.String("old", cached.Currency),
			zap.String("new", code))
	}

	paySess, err := s.api.GeneratePaymentSession(ctx, orderID, code)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.paySessions[orderID] = paySess
	s.mu.Unlock()
	return paySess, nil
}

func (s *Service) dropPaymentSession(orderID int64) {
	s.mu.Lock()
	delete(s.paySessions, orderID)
	s.mu.Unlock()
}

// Cancel cancels an order. Orders past the payment stage are rejected
// locally without contacting the server.
func (s *Service) Cancel(ctx context.Context, orderID int64) error {
	o, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.Status.CanCancel() {
		return fmt.Errorf("%w: order %d is %s and can no longer be cancelled", shared.ErrValidation, orderID, o.Status)
	}
	if err := s.api.CancelOrder(ctx, orderID); err != nil {
		return err
	}
	s.dropPaymentSession(orderID)
	s.logger.Info("order cancelled", zap.Int64("order", orderID))
	return nil
}

// LoadRates fetches the exchange-rate table used for display conversion.
func (s *Service) LoadRates(ctx context.Context) error {
	rates, err := s.api.GetExchangeRates(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rates = currency.NewTable(rates)
	if _, getErr := s.rates.Get(s.displayCode); getErr != nil {
		s.displayCode = currency.BaseCurrency
	}
	s.mu.Unlock()
	return nil
}

// SelectCurrency switches the display currency. Existing payment sessions
// in another currency become stale and are invalidated on the next payment
// attempt, before any new session is requested.
func (s *Service) SelectCurrency(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rates == nil {
		if code != currency.BaseCurrency {
			return fmt.Errorf("%w: exchange rates not loaded", shared.ErrInvalidState)
		}
		s.displayCode = code
		return nil
	}
	if _, err := s.rates.Get(code); err != nil {
		return err
	}
	s.displayCode = code
	return nil
}

// DisplayCurrency returns the currently selected display currency.
func (s *Service) DisplayCurrency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayCode
}

// DisplayAmount converts a base-currency amount into the selected display
// currency. Conversion is presentation only; orders and carts stay in base
// currency.
func (s *Service) DisplayAmount(amount decimal.Decimal) (decimal.Decimal, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rates == nil || s.displayCode == currency.BaseCurrency {
		return amount, currency.BaseCurrency, nil
	}
	converted, err := s.rates.Convert(amount, s.displayCode)
	if err != nil {
		return decimal.Zero, "", err
	}
	return converted, s.displayCode, nil
}

// Rates returns the loaded exchange rates, or nil before LoadRates.
func (s *Service) Rates() []currency.ExchangeRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rates == nil {
		return nil
	}
	return s.rates.Rates()
}
