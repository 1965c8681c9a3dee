package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/deragabu/cursorstream/pkg/protocol"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "cursorstream").
	Namespace string

	// Subsystem is the metrics subsystem (default: "client").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for frame sizes in bytes.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the frame size histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "cursorstream",
		Subsystem: "client",
		// Cursor frames run from tens of bytes (heartbeats) to a few
		// hundred KB (animated bitmaps).
		Buckets:  prometheus.ExponentialBuckets(64, 4, 8),
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics instruments a Client. A nil *Metrics is valid and records
// nothing, so callers never have to branch.
type Metrics struct {
	messages         *prometheus.CounterVec
	decodeErrors     prometheus.Counter
	validationErrors prometheus.Counter
	reconnects       prometheus.Counter
	connState        prometheus.Gauge
	frameBytes       prometheus.Histogram
}

// NewMetrics registers the client metrics and returns a handle to hang on
// Config.Metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "messages_total",
			Help:        "Decoded protocol messages by type.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "decode_errors_total",
			Help:        "Frames that failed to parse as protocol messages.",
			ConstLabels: cfg.ConstLabels,
		}),
		validationErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "validation_errors_total",
			Help:        "Structurally valid cursor updates rejected during image validation.",
			ConstLabels: cfg.ConstLabels,
		}),
		reconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "reconnects_total",
			Help:        "Transitions into the Reconnecting state.",
			ConstLabels: cfg.ConstLabels,
		}),
		connState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "connection_state",
			Help:        "Current connection state (0 Disconnected, 1 Connecting, 2 Connected, 3 Reconnecting).",
			ConstLabels: cfg.ConstLabels,
		}),
		frameBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "frame_bytes",
			Help:        "Size distribution of received binary frames.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
	}
}

// ObserveMessage records a decoded message by type.
func (m *Metrics) ObserveMessage(mt protocol.MessageType) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(mt.String()).Inc()
}

// ObserveFrameBytes records the size of a received binary frame.
func (m *Metrics) ObserveFrameBytes(n int) {
	if m == nil {
		return
	}
	m.frameBytes.Observe(float64(n))
}

// IncDecodeError records a malformed frame.
func (m *Metrics) IncDecodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

// IncValidationError records a rejected cursor update.
func (m *Metrics) IncValidationError() {
	if m == nil {
		return
	}
	m.validationErrors.Inc()
}

// IncReconnect records a transition into Reconnecting.
func (m *Metrics) IncReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

// SetConnState records the current connection state.
func (m *Metrics) SetConnState(s ConnState) {
	if m == nil {
		return
	}
	m.connState.Set(float64(s))
}
