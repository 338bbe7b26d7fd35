package payment

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestore/storefront/internal/domain/order"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/infrastructure/config"
)

func testConfig() config.PaymentConfig {
	return config.PaymentConfig{
		ListenAddr:  "127.0.0.1:0",
		OpenBrowser: false,
		Timeout:     5 * time.Second,
	}
}

func testSession() *order.PaymentSession {
	return &order.PaymentSession{
		Token:       "snap-123",
		RedirectURL: "https://pay.example.com/snap-123",
		Currency:    "USD",
		IssuedAt:    time.Now(),
	}
}

// openAndRedirect runs the widget, waits for the listener, hits the given
// callback path and returns Open's error together with which hooks fired.
func openAndRedirect(t *testing.T, path string) (err error, fired map[string]int, gotErr error) {
	t.Helper()
	w := NewWidget(testConfig(), nil)

	fired = map[string]int{}
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Open(context.Background(), testSession(), Callbacks{
			OnReady:   func(url string) { ready <- url },
			OnSuccess: func() { fired["success"]++ },
			OnPending: func() { fired["pending"]++ },
			OnError: func(e error) {
				fired["error"]++
				gotErr = e
			},
			OnClose: func() { fired["close"]++ },
		})
	}()

	var base string
	select {
	case base = <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("widget never became ready")
	}

	resp, httpErr := http.Get(base + path)
	require.NoError(t, httpErr)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Open did not return after redirect")
	}
	return err, fired, gotErr
}

func TestWidget_Open_RequiresRedirectURL(t *testing.T) {
	w := NewWidget(testConfig(), nil)

	err := w.Open(context.Background(), nil, Callbacks{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	err = w.Open(context.Background(), &order.PaymentSession{Token: "t"}, Callbacks{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestWidget_Open_SuccessRedirect(t *testing.T) {
	err, fired, _ := openAndRedirect(t, "/payment/finish")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"success": 1}, fired)
}

func TestWidget_Open_PendingRedirect(t *testing.T) {
	err, fired, _ := openAndRedirect(t, "/payment/unfinish")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pending": 1}, fired)
}

func TestWidget_Open_ErrorRedirect(t *testing.T) {
	err, fired, gotErr := openAndRedirect(t, "/payment/error?message=card+declined")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"error": 1}, fired)
	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, shared.ErrPaymentGateway)
	assert.Contains(t, gotErr.Error(), "card declined")
}

func TestWidget_Open_CancellationFiresClose(t *testing.T) {
	w := NewWidget(testConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	closed := make(chan struct{})
	ready := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Open(ctx, testSession(), Callbacks{
			OnReady:   func(string) { ready <- struct{}{} },
			OnSuccess: func() { t.Error("unexpected success") },
			OnClose:   func() { close(closed) },
		})
	}()

	<-ready
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Open did not return after cancellation")
	}
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("OnClose never fired")
	}
}

func TestWidget_Open_TimeoutFiresClose(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 100 * time.Millisecond
	w := NewWidget(cfg, nil)

	var closed bool
	err := w.Open(context.Background(), testSession(), Callbacks{
		OnClose: func() { closed = true },
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPaymentGateway)
	assert.True(t, closed)
}

func TestWidget_Open_FirstRedirectWins(t *testing.T) {
	w := NewWidget(testConfig(), nil)

	fired := map[string]int{}
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Open(context.Background(), testSession(), Callbacks{
			OnReady:   func(url string) { ready <- url },
			OnSuccess: func() { fired["success"]++ },
			OnError:   func(error) { fired["error"]++ },
		})
	}()

	base := <-ready
	// Later hits may race the shutdown after the first one lands; only the
	// first redirect has to go through.
	for i, path := range []string{"/payment/finish", "/payment/error", "/payment/finish"} {
		resp, err := http.Get(base + path)
		if i == 0 {
			require.NoError(t, err)
		}
		if err == nil {
			resp.Body.Close()
		}
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Open did not return")
	}
	assert.Equal(t, map[string]int{"success": 1}, fired)
}
