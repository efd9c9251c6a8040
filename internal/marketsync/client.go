// Package marketsync keeps the markup library in step with a community
// market-data feed over WebSocket. The feed pushes full library snapshots
// and incremental per-item updates; both are persisted through the markup
// store. User overrides live in the config layer, so feed writes never
// clobber them.
package marketsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"hunt-stats-lab/internal/domain"
	"hunt-stats-lab/internal/storage"
)

// Config configures feed client behavior.
type Config struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// HandshakeTimeout is timeout for the dial handshake.
	HandshakeTimeout time.Duration
}

// DefaultConfig returns default feed configuration.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       90 * time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}

// Client consumes the market feed and persists library state.
type Client struct {
	endpoint string
	config   Config
	store    storage.MarkupStore
	nowFn    func() int64
	logger   *log.Logger
}

// NewClient creates a feed client. A nil nowFn uses the wall clock.
func NewClient(endpoint string, store storage.MarkupStore, nowFn func() int64) *Client {
	if nowFn == nil {
		nowFn = func() int64 { return time.Now().UnixMilli() }
	}
	return &Client{
		endpoint: endpoint,
		config:   DefaultConfig(),
		store:    store,
		nowFn:    nowFn,
		logger:   log.New(os.Stdout, "[marketsync] ", log.LstdFlags|log.Lshortfile),
	}
}

// SetConfig replaces the connection configuration. Call before Run.
func (c *Client) SetConfig(cfg Config) {
	c.config = cfg
}

// Run connects and consumes the feed until ctx is canceled, reconnecting
// with exponential backoff on any connection failure.
func (c *Client) Run(ctx context.Context) error {
	delay := c.config.ReconnectDelay

	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Printf("feed connection lost: %v; reconnecting in %s", err, delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.config.MaxReconnectDelay {
			delay = c.config.MaxReconnectDelay
		}
	}
}

// consume holds one connection open and applies its messages.
func (c *Client) consume(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	// Close the socket when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	c.logger.Printf("connected to market feed %s", c.endpoint)

	for {
		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read feed message: %w", err)
		}
		if err := c.handleMessage(ctx, message); err != nil {
			// A malformed message or a failed write must not drop the
			// connection; the next snapshot repairs the state.
			c.logger.Printf("handle feed message: %v", err)
		}
	}
}

// feedMessage is the wire shape of the market feed.
type feedMessage struct {
	Type           string               `json:"type"` // "snapshot" or "update"
	Entries        map[string]feedEntry `json:"entries"`
	DefaultPercent float64              `json:"default_percent,omitempty"`
	Fallback       string               `json:"fallback,omitempty"`
}

type feedEntry struct {
	Percent float64 `json:"percent,omitempty"`
	Value   float64 `json:"value,omitempty"`
}

func (c *Client) handleMessage(ctx context.Context, message []byte) error {
	var msg feedMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return fmt.Errorf("parse feed message: %w", err)
	}

	switch msg.Type {
	case "snapshot":
		lib := libraryFromSnapshot(&msg, c.nowFn())
		if err := c.store.SaveLibrary(ctx, lib); err != nil {
			return fmt.Errorf("save library snapshot: %w", err)
		}
		c.logger.Printf("applied library snapshot: %d entries", len(lib.Entries))
		return nil

	case "update":
		lib, err := c.store.LoadLibrary(ctx)
		if errors.Is(err, storage.ErrNotFound) {
			lib = domain.NewMarkupLibrary()
		} else if err != nil {
			return fmt.Errorf("load library: %w", err)
		}
		applyUpdate(lib, &msg, c.nowFn())
		if err := c.store.SaveLibrary(ctx, lib); err != nil {
			return fmt.Errorf("save library update: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown feed message type %q", msg.Type)
	}
}

// libraryFromSnapshot converts a full snapshot into a fresh library.
func libraryFromSnapshot(msg *feedMessage, syncedAt int64) *domain.MarkupLibrary {
	lib := domain.NewMarkupLibrary()
	lib.DefaultPercent = msg.DefaultPercent
	if policy := domain.FallbackPolicy(msg.Fallback); policy.IsValid() {
		lib.Fallback = policy
	}
	for name, e := range msg.Entries {
		lib.Entries[name] = domain.MarkupEntry{
			Percent: e.Percent,
			Value:   e.Value,
			Source:  domain.MarkupSourceLibrary,
		}
	}
	lib.SyncedAt = syncedAt
	return lib
}

// applyUpdate merges an incremental update into an existing library.
func applyUpdate(lib *domain.MarkupLibrary, msg *feedMessage, syncedAt int64) {
	for name, e := range msg.Entries {
		lib.Entries[name] = domain.MarkupEntry{
			Percent: e.Percent,
			Value:   e.Value,
			Source:  domain.MarkupSourceLibrary,
		}
	}
	if msg.DefaultPercent > 0 {
		lib.DefaultPercent = msg.DefaultPercent
	}
	if policy := domain.FallbackPolicy(msg.Fallback); policy.IsValid() {
		lib.Fallback = policy
	}
	lib.SyncedAt = syncedAt
}
