package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	"github.com/deragabu/cursorstream/pkg/cursor"
)

// Default tuning. None of these are protocol contracts; override them on
// Config as needed.
const (
	// DefaultHeartbeatTimeout is how long the client waits for any frame
	// before presuming the server unreachable. The server heartbeats every
	// 30s, so this allows three missed beats.
	DefaultHeartbeatTimeout = 90 * time.Second

	// DefaultHandshakeTimeout bounds a single dial attempt.
	DefaultHandshakeTimeout = 10 * time.Second

	// DefaultShutdownGrace is how long Stop waits for the receive loop to
	// exit before abandoning the connection.
	DefaultShutdownGrace = 5 * time.Second

	DefaultBackoffBase = 500 * time.Millisecond
	DefaultBackoffMax  = 30 * time.Second

	// DefaultBackoffResetAfter is the sustained uptime after which the
	// backoff schedule returns to the base delay.
	DefaultBackoffResetAfter = 30 * time.Second
)

var (
	ErrMissingURL     = errors.New("client: config has no URL")
	ErrAlreadyStarted = errors.New("client: already started")
	ErrNotStarted     = errors.New("client: not started")

	// ErrShutdownTimeout is returned by Stop when the receive loop does not
	// exit within the shutdown grace period. The connection is forcibly
	// abandoned regardless.
	ErrShutdownTimeout = errors.New("client: transport did not close within the shutdown grace period")
)

// Handlers are subscriber callbacks. All of them are optional and all of
// them run on the receive loop goroutine, in strict event order. The one
// exception: when Stop times out waiting for a wedged loop, the terminal
// Disconnected state becomes visible through State without an
// OnStateChange callback.
type Handlers struct {
	// OnSnapshot fires on every snapshot replacement (update, hide, or
	// resolved signal).
	OnSnapshot func(*cursor.Snapshot)

	// OnStateChange fires on every connection state transition.
	OnStateChange func(ConnState)

	// OnError fires for every recovered error: malformed frames, failed
	// image validation, transport failures. None of these are fatal.
	OnError func(error)
}

// Config configures a Client. URL is required; zero values elsewhere take
// the defaults above.
type Config struct {
	// URL is the WebSocket endpoint, e.g. "ws://127.0.0.1:9000".
	URL string

	// DevicePixelRatio, when positive, is announced to the server after
	// each connect so it can scale cursor bitmaps for this display.
	DevicePixelRatio float64

	HeartbeatTimeout  time.Duration
	HandshakeTimeout  time.Duration
	ShutdownGrace     time.Duration
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	BackoffResetAfter time.Duration

	Handlers Handlers

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics, when set, instruments the client. See NewMetrics.
	Metrics *Metrics

	// Tracer, when set, records a span per connection attempt. See Tracer.
	Tracer trace.Tracer
}

func (cfg Config) withDefaults() Config {
	if cfg.HeartbeatTimeout == 0 {
		cfg.HeartbeatTimeout = DefaultHeartbeatTimeout
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.ShutdownGrace == 0 {
		cfg.ShutdownGrace = DefaultShutdownGrace
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = DefaultBackoffMax
	}
	if cfg.BackoffResetAfter == 0 {
		cfg.BackoffResetAfter = DefaultBackoffResetAfter
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Client maintains one connection to a cursor stream server and projects
// its messages into the current cursor snapshot.
type Client struct {
	cfg       Config
	logger    *slog.Logger
	dialer    *websocket.Dialer
	projector *cursor.Projector

	state atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Client. It does not connect; call Start.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	cfg = cfg.withDefaults()

	return &Client{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "cursorstream"),
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		projector: cursor.NewProjector(),
	}, nil
}

// Start launches the receive loop. The loop reconnects on failure until the
// context is cancelled or Stop is called.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(runCtx)
	return nil
}

// Stop signals the receive loop to exit at its next suspension point and
// waits up to the shutdown grace period for it to finish. On timeout the
// connection is abandoned and ErrShutdownTimeout returned; the terminal
// Disconnected state is reached either way.
func (c *Client) Stop() error {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return ErrNotStarted
	}
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.mu.Unlock()

	cancel()

	timer := time.NewTimer(c.cfg.ShutdownGrace)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		// The loop is wedged mid-operation; the connection watcher has
		// already torn down the socket, so abandon it. The state is
		// stored without firing OnStateChange so callbacks keep running
		// only on the receive loop goroutine, in order; the loop's own
		// exit path publishes any remaining transition.
		c.state.Store(int32(StateDisconnected))
		c.cfg.Metrics.SetConnState(StateDisconnected)
		return ErrShutdownTimeout
	}
}

// Current returns the latest cursor snapshot. Never nil; the initial state
// is cursor.StateUnknown.
func (c *Client) Current() *cursor.Snapshot {
	return c.projector.Current()
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	return ConnState(c.state.Load())
}

// setState publishes a state transition. Called only from the receive loop
// goroutine; Stop's forced-shutdown path stores the state directly without
// publishing.
func (c *Client) setState(s ConnState) {
	if ConnState(c.state.Swap(int32(s))) == s {
		return
	}
	c.logger.Info("connection state", "state", s.String())
	c.cfg.Metrics.SetConnState(s)
	if c.cfg.Handlers.OnStateChange != nil {
		c.cfg.Handlers.OnStateChange(s)
	}
}

// reportError surfaces a recovered error to the log and subscribers.
func (c *Client) reportError(err error) {
	c.logger.Error("stream error", "error", err)
	if c.cfg.Handlers.OnError != nil {
		c.cfg.Handlers.OnError(err)
	}
}
