// Package cart keeps a local shopping cart in step with the server copy.
// Every mutation applies locally first so the UI never waits on the network;
// the server copy is updated in the background and its echo is taken as the
// authoritative cart when it arrives. A failed sync is reported to the user
// but the local cart is never rolled back.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/domain/shop"
)

// State is the synchronizer's lifecycle state.
type State int

const (
	// StateUninitialized means Init has not run yet.
	StateUninitialized State = iota
	// StateLoading means the server cart is being fetched.
	StateLoading
	// StateEmpty means there is no server cart to track: either nobody is
	// signed in, or the initial fetch failed and the cart fell back to empty.
	StateEmpty
	// StateSynced means the local cart tracks the server copy.
	StateSynced
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// API is the slice of the platform client the synchronizer needs.
type API interface {
	FetchCart(ctx context.Context) ([]shop.CartItem, error)
	ReplaceCart(ctx context.Context, items []shop.CartItem) ([]shop.CartItem, error)
	ClearCart(ctx context.Context) error
}

// Authenticator reports whether a user session is active.
type Authenticator interface {
	Authenticated() bool
}

// Notifier surfaces background sync failures to the user.
type Notifier interface {
	CartSyncFailed(err error)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) CartSyncFailed(error) {}

// Synchronizer owns the local cart and its background reconciliation with
// the server. All methods are safe for concurrent use.
type Synchronizer struct {
	api      API
	auth     Authenticator
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration

	mu    sync.Mutex
	state State
	cart  *shop.Cart
	// seq numbers each background sync; only the echo of the newest sync is
	// applied so a slow early response cannot overwrite a later cart.
	seq     uint64
	applied uint64
	wg      sync.WaitGroup
}

// NewSynchronizer creates a cart synchronizer in the uninitialized state.
// The timeout bounds each background sync request.
func NewSynchronizer(api API, auth Authenticator, notifier Notifier, logger *zap.Logger, timeout time.Duration) *Synchronizer {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Synchronizer{
		api:      api,
		auth:     auth,
		notifier: notifier,
		logger:   logger,
		timeout:  timeout,
		state:    StateUninitialized,
		cart:     shop.NewCart(),
	}
}

// Init loads the server cart for the signed-in user. Without a session it
// settles on an empty cart. A failed fetch also settles on an empty cart so
// the store stays usable; the error is returned for the caller to surface.
func (s *Synchronizer) Init(ctx context.Context) error {
	s.mu.Lock()
	if !s.auth.Authenticated() {
		s.state = StateEmpty
		s.cart.Clear()
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	items, err := s.api.FetchCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateEmpty
		s.cart.Clear()
		s.logger.Warn("cart load failed, starting empty", zap.Error(err))
		return fmt.Errorf("loading cart: %w", err)
	}
	s.cart.Replace(items)
	s.state = StateSynced
	s.logger.Debug("cart loaded", zap.Int("lines", s.cart.LineCount()))
	return nil
}

// Reset drops the local cart and returns to the empty state. Called on
// logout; the server copy is left alone.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.state = StateEmpty
	s.seq++
}

// Add puts quantity units of the shoe in the cart, merging with an existing
// line for the same shoe.
func (s *Synchronizer) Add(shoe shop.Shoe, quantity int) error {
	return s.mutate(func(c *shop.Cart) error {
		return c.Add(shoe, quantity)
	})
}

// Remove drops the line for the given shoe.
func (s *Synchronizer) Remove(shoeID int64) error {
	return s.mutate(func(c *shop.Cart) error {
		c.Remove(shoeID)
		return nil
	})
}

// UpdateQuantity sets the line quantity for the given shoe. A quantity of
// zero or less removes the line.
func (s *Synchronizer) UpdateQuantity(shoeID int64, quantity int) error {
	return s.mutate(func(c *shop.Cart) error {
		c.UpdateQuantity(shoeID, quantity)
		return nil
	})
}

// Clear empties the cart locally and on the server.
func (s *Synchronizer) Clear() error {
	s.mu.Lock()
	if !s.auth.Authenticated() {
		s.mu.Unlock()
		return fmt.Errorf("%w: sign in to use the cart", shared.ErrValidation)
	}
	s.cart.Clear()
	s.seq++
	thisSeq := s.seq
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.api.ClearCart(ctx); err != nil {
			s.logger.Warn("cart clear sync failed", zap.Uint64("seq", thisSeq), zap.Error(err))
			s.notifier.CartSyncFailed(err)
			return
		}
		s.mu.Lock()
		if thisSeq > s.applied {
			s.applied = thisSeq
		}
		s.mu.Unlock()
	}()
	return nil
}

// mutate applies one local cart operation and schedules a background sync of
// the whole cart. The local change sticks even if the sync later fails.
func (s *Synchronizer) mutate(op func(*shop.Cart) error) error {
	s.mu.Lock()
	if !s.auth.Authenticated() {
		s.mu.Unlock()
		return fmt.Errorf("%w: sign in to use the cart", shared.ErrValidation)
	}
	if err := op(s.cart); err != nil {
		s.mu.Unlock()
		return err
	}
	s.seq++
	thisSeq := s.seq
	snapshot := s.cart.Items()
	s.state = StateSynced
	s.mu.Unlock()

	s.wg.Add(1)
	go s.sync(thisSeq, snapshot)
	return nil
}

// sync replaces the server cart with the snapshot and, when this is still
// the newest sync, adopts the server's echo as the authoritative cart.
func (s *Synchronizer) sync(thisSeq uint64, snapshot []shop.CartItem) {
	defer s.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	echo, err := s.api.ReplaceCart(ctx, snapshot)
	if err != nil {
		s.logger.Warn("cart sync failed", zap.Uint64("seq", thisSeq), zap.Error(err))
		s.notifier.CartSyncFailed(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if thisSeq != s.seq || thisSeq <= s.applied {
		// A newer local change or echo superseded this response.
		s.logger.Debug("discarding stale cart echo", zap.Uint64("seq", thisSeq), zap.Uint64("latest", s.seq))
		return
	}
	s.applied = thisSeq
	s.cart.Replace(echo)
}

// Flush waits for all in-flight background syncs to finish. Call before
// process exit so queued changes reach the server.
func (s *Synchronizer) Flush() {
	s.wg.Wait()
}

// State returns the synchronizer's current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Items returns a copy of the cart lines.
func (s *Synchronizer) Items() []shop.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// Total returns the cart total in base currency.
func (s *Synchronizer) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// ItemCount returns the summed quantity across all lines.
func (s *Synchronizer) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// IsEmpty reports whether the cart has no lines.
func (s *Synchronizer) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// QuantityOf returns the quantity currently carted for a product, 0 if absent.
func (s *Synchronizer) QuantityOf(shoeID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.QuantityOf(shoeID)
}
