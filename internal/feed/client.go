// Package feed subscribes to the backend notification stream and forwards
// verified notifications to the session inbox.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mmynk/skydragon/internal/session"
)

// Channel is the name reported in ExternalChannelError for feed failures.
const Channel = "referral-feed"

// Verifier turns a signed frame into a notification.
type Verifier interface {
	Validate(token string) (session.Notification, error)
}

// Client reads notification tokens from a websocket. Each text frame
// carries one token.
type Client struct {
	url      string
	verifier Verifier
	inbox    *session.Inbox
	dialer   *websocket.Dialer
	header   http.Header
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithHeader sets extra handshake headers.
func WithHeader(h http.Header) Option {
	return func(c *Client) { c.header = h }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a feed client for url.
func NewClient(url string, verifier Verifier, inbox *session.Inbox, opts ...Option) *Client {
	c := &Client{
		url:      url,
		verifier: verifier,
		inbox:    inbox,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects and forwards notifications until ctx is done or the
// connection fails. A connection failure is handed to the inbox as its
// terminal failure and Run returns nil; there is no reconnect.
func (c *Client) Run(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return c.fail(ctx, fmt.Errorf("dial %s: %w", c.url, err))
	}
	defer conn.Close()

	c.logger.Info("Notification feed connected", "url", c.url)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.logger.Info("Notification feed closed by server")
			}
			return c.fail(ctx, err)
		}
		if msgType != websocket.TextMessage {
			continue
		}

		n, err := c.verifier.Validate(strings.TrimSpace(string(data)))
		if err != nil {
			c.logger.Warn("Dropping unverified notification", "error", err)
			continue
		}
		if err := c.inbox.Submit(ctx, n); err != nil {
			if errors.Is(err, session.ErrInboxClosed) {
				return nil
			}
			return err
		}
	}
}

func (c *Client) fail(ctx context.Context, cause error) error {
	c.logger.Error("Notification feed failed", "error", cause)
	if err := c.inbox.Fail(ctx, Channel, cause); err != nil && !errors.Is(err, session.ErrInboxClosed) {
		return err
	}
	return nil
}
