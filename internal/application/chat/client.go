// Package chat is the websocket client for the store's shopping assistant.
// The client keeps the full conversation in memory, appends the user's own
// messages optimistically before the server confirms them and reconnects a
// bounded number of times when the connection drops.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	domchat "github.com/shoestore/storefront/internal/domain/chat"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/infrastructure/config"
)

// Status is the connection state reported through Handlers.OnStatus.
type Status int

const (
	StatusConnected Status = iota
	StatusReconnecting
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// TokenSource supplies the bearer token for the websocket handshake.
type TokenSource interface {
	Token() string
}

// Handlers receive assistant events. Nil handlers are skipped. Handlers run
// on the read loop goroutine and must not block.
type Handlers struct {
	OnMessage func(domchat.Message)
	OnTyping  func(active bool)
	OnError   func(err error)
	OnStatus  func(status Status)
}

// envelope is the wire frame for every chat event in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Client is a reconnecting chat connection. Safe for concurrent use.
type Client struct {
	cfg      config.ChatConfig
	tokens   TokenSource
	handlers Handlers
	logger   *zap.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	history []domchat.Message
	closed  bool
}

// NewClient creates a chat client. Connect must be called before Send.
func NewClient(cfg config.ChatConfig, tokens TokenSource, handlers Handlers, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = 5
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if cfg.ReconnectDelayMax <= 0 {
		cfg.ReconnectDelayMax = 5 * time.Second
	}
	return &Client{
		cfg:      cfg,
		tokens:   tokens,
		handlers: handlers,
		logger:   logger,
	}
}

// Connect dials the chat server and starts the read loop. The context bounds
// the dial and every later reconnection attempt.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.mu.Unlock()

	c.status(StatusConnected)
	go c.readLoop(ctx, conn)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	if c.cfg.URL == "" {
		return nil, fmt.Errorf("%w: chat URL is not configured", shared.ErrInvalidInput)
	}
	header := http.Header{}
	if token := c.tokens.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing chat server: %v", shared.ErrNetwork, err)
	}
	return conn, nil
}

// Send appends the user's message to the history immediately and ships it to
// the server. A failed write keeps the optimistic entry and returns the
// error; the user sees their message either way.
func (c *Client) Send(content string) (domchat.Message, error) {
	msg, ok := domchat.NewUserMessage(content)
	if !ok {
		return domchat.Message{}, fmt.Errorf("%w: message is empty", shared.ErrInvalidInput)
	}

	c.mu.Lock()
	c.history = append(c.history, msg)
	conn := c.conn
	c.mu.Unlock()

	if h := c.handlers.OnMessage; h != nil {
		h(msg)
	}

	if conn == nil {
		return msg, fmt.Errorf("%w: chat is not connected", shared.ErrNetwork)
	}
	if err := c.writeEvent(conn, domchat.EventMessage, msg); err != nil {
		return msg, fmt.Errorf("%w: sending chat message: %v", shared.ErrNetwork, err)
	}
	return msg, nil
}

// SendTyping tells the server whether the user is typing.
func (c *Client) SendTyping(active bool) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("%w: chat is not connected", shared.ErrNetwork)
	}
	return c.writeEvent(conn, domchat.EventTyping, active)
}

func (c *Client) writeEvent(conn *websocket.Conn, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return conn.WriteJSON(envelope{Event: event, Data: payload})
}

// History returns a copy of the conversation so far.
func (c *Client) History() []domchat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domchat.Message, len(c.history))
	copy(out, c.history)
	return out
}

// ClearMessages drops the local conversation history. The connection stays up.
func (c *Client) ClearMessages() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
}

// Close shuts the connection down. The read loop exits without reconnecting.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed || ctx.Err() != nil {
				return
			}
			c.logger.Warn("chat connection lost", zap.Error(err))
			next := c.reconnect(ctx)
			if next == nil {
				return
			}
			conn = next
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env envelope) {
	switch env.Event {
	case domchat.EventMessage:
		var msg domchat.Message
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			c.logger.Warn("malformed chat message", zap.Error(err))
			return
		}
		c.mu.Lock()
		c.history = append(c.history, msg)
		c.mu.Unlock()
		if h := c.handlers.OnMessage; h != nil {
			h(msg)
		}
	case domchat.EventTyping:
		var active bool
		if err := json.Unmarshal(env.Data, &active); err != nil {
			return
		}
		if h := c.handlers.OnTyping; h != nil {
			h(active)
		}
	case domchat.EventError:
		var payload errorPayload
		_ = json.Unmarshal(env.Data, &payload)
		if payload.Message == "" {
			payload.Message = "chat server reported an error"
		}
		if h := c.handlers.OnError; h != nil {
			h(fmt.Errorf("%w: %s", shared.ErrNetwork, payload.Message))
		}
	default:
		c.logger.Debug("ignoring unknown chat event", zap.String("event", env.Event))
	}
}

// reconnect tries to re-establish the connection a bounded number of times
// with a growing delay between attempts. Returns nil once the budget is
// spent or the context ends.
func (c *Client) reconnect(ctx context.Context) *websocket.Conn {
	c.status(StatusReconnecting)
	for attempt := 1; attempt <= c.cfg.MaxReconnectAttempts; attempt++ {
		delay := time.Duration(attempt) * c.cfg.ReconnectDelay
		if delay > c.cfg.ReconnectDelayMax {
			delay = c.cfg.ReconnectDelayMax
		}
		select {
		case <-ctx.Done():
			c.status(StatusDisconnected)
			return nil
		case <-time.After(delay):
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.logger.Warn("chat reconnect failed",
				zap.Int("attempt", attempt),
				zap.Int("max", c.cfg.MaxReconnectAttempts),
				zap.Error(err))
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			conn.Close()
			return nil
		}
		c.conn = conn
		c.mu.Unlock()
		c.logger.Info("chat reconnected", zap.Int("attempt", attempt))
		c.status(StatusConnected)
		return conn
	}

	c.logger.Warn("chat reconnect budget exhausted", zap.Int("attempts", c.cfg.MaxReconnectAttempts))
	if h := c.handlers.OnError; h != nil {
		h(fmt.Errorf("%w: chat connection lost and could not be restored", shared.ErrNetwork))
	}
	c.status(StatusDisconnected)
	return nil
}

func (c *Client) status(s Status) {
	if h := c.handlers.OnStatus; h != nil {
		h(s)
	}
}
