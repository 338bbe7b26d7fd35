// Package payment hosts the interactive payment widget for the command line.
// Opening the widget starts a loopback HTTP listener, points the buyer at the
// gateway's payment page and waits for the gateway to redirect back with the
// outcome. Exactly one outcome callback fires per open; abandoning the widget
// fires OnClose instead.
package payment

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shoestore/storefront/internal/domain/order"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/infrastructure/config"
)

// Callbacks are the widget outcome hooks. Any nil hook is skipped. The hooks
// report what the gateway redirect said, nothing more; the caller decides
// what to do with it (typically re-poll the order).
type Callbacks struct {
	// OnReady fires once the loopback listener is bound, with its callback
	// base URL. Useful for surfacing the address to the user or to tests.
	OnReady   func(callbackURL string)
	OnSuccess func()
	OnPending func()
	OnError   func(err error)
	OnClose   func()
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomePending
	outcomeError
)

type outcome struct {
	kind    outcomeKind
	message string
}

// Widget drives one payment attempt through the gateway's hosted page.
type Widget struct {
	cfg    config.PaymentConfig
	logger *zap.Logger
}

// NewWidget creates a payment widget.
func NewWidget(cfg config.PaymentConfig, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{cfg: cfg, logger: logger}
}

// Open presents the session's payment page and blocks until the gateway
// redirects back to the loopback listener, the context is cancelled or the
// widget times out. Cancellation and timeout count as closing the widget.
func (w *Widget) Open(ctx context.Context, sess *order.PaymentSession, cb Callbacks) error {
	if sess == nil || sess.RedirectURL == "" {
		return fmt.Errorf("%w: payment session has no redirect URL", shared.ErrInvalidInput)
	}

	addr := w.cfg.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("starting payment listener: %w", err)
	}

	// Buffered at one so only the first redirect counts; the gateway may
	// hit the callback more than once.
	results := make(chan outcome, 1)
	report := func(o outcome) {
		select {
		case results <- o:
		default:
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/payment/finish", func(c *gin.Context) {
		report(outcome{kind: outcomeSuccess})
		c.String(http.StatusOK, "Payment received. You can close this tab and return to the terminal.")
	})
	engine.GET("/payment/unfinish", func(c *gin.Context) {
		report(outcome{kind: outcomePending})
		c.String(http.StatusOK, "Payment is still pending. You can close this tab and return to the terminal.")
	})
	engine.GET("/payment/error", func(c *gin.Context) {
		report(outcome{kind: outcomeError, message: c.Query("message")})
		c.String(http.StatusOK, "Payment failed. You can close this tab and retry from the terminal.")
	})

	srv := &http.Server{Handler: engine}
	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			w.logger.Warn("payment listener stopped", zap.Error(serveErr))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	callbackURL := "http://" + ln.Addr().String()
	w.logger.Info("payment page ready",
		zap.String("url", sess.RedirectURL),
		zap.String("callback", callbackURL),
		zap.String("currency", sess.Currency))
	if cb.OnReady != nil {
		cb.OnReady(callbackURL)
	}
	if w.cfg.OpenBrowser {
		if browseErr := openBrowser(sess.RedirectURL); browseErr != nil {
			w.logger.Warn("could not open browser, visit the URL manually",
				zap.String("url", sess.RedirectURL), zap.Error(browseErr))
		}
	}

	timeout := w.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-results:
		switch o.kind {
		case outcomeSuccess:
			if cb.OnSuccess != nil {
				cb.OnSuccess()
			}
		case outcomePending:
			if cb.OnPending != nil {
				cb.OnPending()
			}
		case outcomeError:
			if cb.OnError != nil {
				msg := o.message
				if msg == "" {
					msg = "payment rejected by gateway"
				}
				cb.OnError(fmt.Errorf("%w: %s", shared.ErrPaymentGateway, msg))
			}
		}
		return nil
	case <-ctx.Done():
		if cb.OnClose != nil {
			cb.OnClose()
		}
		return ctx.Err()
	case <-timer.C:
		if cb.OnClose != nil {
			cb.OnClose()
		}
		return fmt.Errorf("%w: payment widget timed out", shared.ErrPaymentGateway)
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
