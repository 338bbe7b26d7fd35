package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/domain/shop"
)

type fakeAuth struct{ ok bool }

func (f *fakeAuth) Authenticated() bool { return f.ok }

type fakeAPI struct {
	mu sync.Mutex

	fetchItems []shop.CartItem
	fetchErr   error

	// replaceHook, when set, handles ReplaceCart entirely.
	replaceHook  func(items []shop.CartItem) ([]shop.CartItem, error)
	replaceErr   error
	replaceCalls int
	lastReplace  []shop.CartItem

	clearErr   error
	clearCalls int
}

func (f *fakeAPI) FetchCart(context.Context) ([]shop.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchItems, f.fetchErr
}

func (f *fakeAPI) ReplaceCart(_ context.Context, items []shop.CartItem) ([]shop.CartItem, error) {
	f.mu.Lock()
	hook := f.replaceHook
	f.replaceCalls++
	f.lastReplace = items
	err := f.replaceErr
	f.mu.Unlock()

	if hook != nil {
		return hook(items)
	}
	if err != nil {
		return nil, err
	}
	// Default behavior: echo the submitted cart back verbatim.
	return items, nil
}

func (f *fakeAPI) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return f.clearErr
}

type recordingNotifier struct {
	mu   sync.Mutex
	errs []error
}

func (n *recordingNotifier) CartSyncFailed(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

func (n *recordingNotifier) failures() []error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]error(nil), n.errs...)
}

func testShoe(id int64, price int64) shop.Shoe {
	return shop.Shoe{ID: id, Name: "Shoe", Brand: "Acme", Price: decimal.NewFromInt(price), Stock: 10}
}

func newTestSynchronizer(api *fakeAPI, auth *fakeAuth, n Notifier) *Synchronizer {
	return NewSynchronizer(api, auth, n, nil, time.Second)
}

func TestSynchronizer_InitWithoutSession(t *testing.T) {
	s := newTestSynchronizer(&fakeAPI{}, &fakeAuth{ok: false}, nil)
	assert.Equal(t, StateUninitialized, s.State())

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, StateEmpty, s.State())
	assert.True(t, s.IsEmpty())
}

func TestSynchronizer_InitLoadsServerCart(t *testing.T) {
	api := &fakeAPI{fetchItems: []shop.CartItem{
		{Shoe: testShoe(1, 40), Quantity: 2},
		{Shoe: testShoe(2, 15), Quantity: 1},
	}}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, StateSynced, s.State())
	assert.Equal(t, 3, s.ItemCount())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(95)))
}

func TestSynchronizer_InitFetchFailureFallsBackToEmpty(t *testing.T) {
	api := &fakeAPI{fetchErr: shared.ErrNetwork}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)

	err := s.Init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNetwork)
	assert.Equal(t, StateEmpty, s.State())
	assert.True(t, s.IsEmpty())
}

func TestSynchronizer_MutationsRequireSession(t *testing.T) {
	s := newTestSynchronizer(&fakeAPI{}, &fakeAuth{ok: false}, nil)
	require.NoError(t, s.Init(context.Background()))

	assert.ErrorIs(t, s.Add(testShoe(1, 40), 1), shared.ErrValidation)
	assert.ErrorIs(t, s.Remove(1), shared.ErrValidation)
	assert.ErrorIs(t, s.UpdateQuantity(1, 2), shared.ErrValidation)
	assert.ErrorIs(t, s.Clear(), shared.ErrValidation)
}

func TestSynchronizer_AddIsOptimistic(t *testing.T) {
	block := make(chan struct{})
	api := &fakeAPI{replaceHook: func(items []shop.CartItem) ([]shop.CartItem, error) {
		<-block
		return items, nil
	}}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))

	// The item is visible before the server has answered.
	require.NoError(t, s.Add(testShoe(1, 40), 2))
	assert.Equal(t, 2, s.ItemCount())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(80)))

	close(block)
	s.Flush()
	assert.Equal(t, 2, s.ItemCount())
}

func TestSynchronizer_SyncFailureNotifiesButKeepsLocalCart(t *testing.T) {
	api := &fakeAPI{replaceErr: shared.ErrNetwork}
	notifier := &recordingNotifier{}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, notifier)
	require.NoError(t, s.Init(context.Background()))

	require.NoError(t, s.Add(testShoe(1, 40), 2))
	s.Flush()

	// The local change sticks; the failure only produces a notification.
	assert.Equal(t, 2, s.ItemCount())
	failures := notifier.failures()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], shared.ErrNetwork)
}

func TestSynchronizer_ServerEchoIsAuthoritative(t *testing.T) {
	// The server clamps the quantity to available stock.
	api := &fakeAPI{replaceHook: func(items []shop.CartItem) ([]shop.CartItem, error) {
		clamped := make([]shop.CartItem, len(items))
		copy(clamped, items)
		for i := range clamped {
			if clamped[i].Quantity > 3 {
				clamped[i].Quantity = 3
			}
		}
		return clamped, nil
	}}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))

	require.NoError(t, s.Add(testShoe(1, 40), 5))
	assert.Equal(t, 5, s.ItemCount())

	s.Flush()
	assert.Equal(t, 3, s.ItemCount())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(120)))
}

func TestSynchronizer_StaleEchoIsDiscarded(t *testing.T) {
	// The first sync (one line) answers after the second (two lines). Its
	// echo must not overwrite the newer cart.
	firstDone := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{}
	api.replaceHook = func(items []shop.CartItem) ([]shop.CartItem, error) {
		if len(items) == 1 {
			<-release
			defer close(firstDone)
		}
		return items, nil
	}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))

	require.NoError(t, s.Add(testShoe(1, 40), 1))
	require.NoError(t, s.Add(testShoe(2, 15), 1))

	// Let the newer sync land first, then release the stale one.
	waitForReplaceCalls(t, api, 2)
	close(release)
	<-firstDone
	s.Flush()

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, s.ItemCount())
}

func waitForReplaceCalls(t *testing.T, api *fakeAPI, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		api.mu.Lock()
		calls := api.replaceCalls
		api.mu.Unlock()
		if calls >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d replace calls", want)
}

func TestSynchronizer_UpdateQuantityZeroRemovesLine(t *testing.T) {
	api := &fakeAPI{}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))

	require.NoError(t, s.Add(testShoe(1, 40), 2))
	require.NoError(t, s.UpdateQuantity(1, 0))
	assert.True(t, s.IsEmpty())

	s.Flush()
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.lastReplace)
}

func TestSynchronizer_ClearSyncsServer(t *testing.T) {
	api := &fakeAPI{fetchItems: []shop.CartItem{{Shoe: testShoe(1, 40), Quantity: 1}}}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))
	require.False(t, s.IsEmpty())

	require.NoError(t, s.Clear())
	assert.True(t, s.IsEmpty())

	s.Flush()
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 1, api.clearCalls)
}

func TestSynchronizer_ResetDropsLocalCartOnly(t *testing.T) {
	api := &fakeAPI{fetchItems: []shop.CartItem{{Shoe: testShoe(1, 40), Quantity: 1}}}
	s := newTestSynchronizer(api, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))

	s.Reset()
	assert.Equal(t, StateEmpty, s.State())
	assert.True(t, s.IsEmpty())

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Zero(t, api.clearCalls)
	assert.Zero(t, api.replaceCalls)
}

func TestSynchronizer_AddRejectsInvalidQuantity(t *testing.T) {
	s := newTestSynchronizer(&fakeAPI{}, &fakeAuth{ok: true}, nil)
	require.NoError(t, s.Init(context.Background()))

	err := s.Add(testShoe(1, 40), 0)
	require.Error(t, err)
	var domainErr *shared.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.True(t, s.IsEmpty())
}
