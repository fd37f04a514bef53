// Package bridge adapts the server's websocket push stream into
// action-creator invocations. The bridge owns the transport concerns —
// dialing, reconnecting, liveness signalling — while message semantics
// stay entirely in the handler it forwards frames to.
package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Handler receives each raw text frame from the push channel.
type Handler interface {
	OnMessage(raw []byte)
}

// StatusFunc is told whenever the connection opens (true) or closes
// (false).
type StatusFunc func(connected bool)

// Config holds bridge configuration.
type Config struct {
	// URL is the ws:// or wss:// endpoint.
	URL string
	// Jar supplies the session cookie for the dial request.
	Jar http.CookieJar
	// ReconnectDelay is the pause between connection attempts.
	ReconnectDelay time.Duration
}

// DefaultConfig returns sensible defaults for bridge configuration.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay: 2 * time.Second,
	}
}

// Bridge maintains one persistent connection to the push channel.
type Bridge struct {
	cfg     Config
	handler Handler
	status  StatusFunc
	logger  *slog.Logger
}

// New creates a bridge delivering frames to handler and connection state
// changes to status.
func New(cfg Config, handler Handler, status StatusFunc, logger *slog.Logger) *Bridge {
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = DefaultConfig().ReconnectDelay
	}
	return &Bridge{
		cfg:     cfg,
		handler: handler,
		status:  status,
		logger:  logger.With(slog.String("component", "bridge")),
	}
}

// WSURL converts an http(s) base URL into the matching ws(s) endpoint.
func WSURL(baseURL, path string) string {
	u := strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + path
}

// Run connects and reads frames until the context is cancelled,
// redialling after every disconnect. Each received text frame goes to the
// handler; the status callback fires on every open and close.
func (b *Bridge) Run(ctx context.Context) {
	for {
		if err := b.connectOnce(ctx); err != nil {
			b.logger.Warn("push connection lost", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(b.cfg.ReconnectDelay):
		}
	}
}

func (b *Bridge) connectOnce(ctx context.Context) error {
	dialer := websocket.Dialer{
		Jar:              b.cfg.Jar,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, b.cfg.URL, nil)
	if err != nil {
		return err
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer func() { _ = conn.Close() }()

	b.logger.Info("push channel connected", slog.String("url", b.cfg.URL))
	b.status(true)
	defer b.status(false)

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		b.handler.OnMessage(raw)
	}
}
