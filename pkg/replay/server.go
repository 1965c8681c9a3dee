// Package replay serves a recorded cursor session over WebSocket for local
// development and testing. It mimics the production agent's observable
// behavior: one protobuf message per binary frame, periodic heartbeats,
// per-client device pixel ratio configuration via text frames, and
// lightweight signal messages for cursors a client has already received.
package replay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deragabu/cursorstream/pkg/protocol"
)

// Defaults for the stream schedule.
const (
	DefaultFrameInterval     = 500 * time.Millisecond
	DefaultHeartbeatInterval = 30 * time.Second
)

// Config configures a replay server.
type Config struct {
	// Recording is the message sequence to stream, in order.
	Recording []*protocol.Message

	// FrameInterval is the delay between recorded frames.
	FrameInterval time.Duration

	// HeartbeatInterval is the delay between heartbeat messages.
	HeartbeatInterval time.Duration

	// Loop restarts the recording once exhausted.
	Loop bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server streams the recording to every connected client.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a replay server.
func New(cfg Config) *Server {
	if cfg.FrameInterval == 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "replay"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler: the stream at /, Prometheus metrics at
// /metrics, and a liveness probe at /healthz.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/", s.serveStream)
	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("replay server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// clientConfig is the text-frame configuration a client may send.
type clientConfig struct {
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
}

func (s *Server) serveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket handshake failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	logger := s.logger.With("remote", r.RemoteAddr)
	logger.Info("client connected")

	// Reader: watches for the close and for DPR config frames. A config
	// frame resets the sent-cursor set so full bitmaps are resent at the
	// new scale.
	dprCh := make(chan float64, 1)
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			var cfg clientConfig
			if err := json.Unmarshal(data, &cfg); err != nil {
				logger.Debug("unparseable config frame", "error", err)
				continue
			}
			if cfg.DevicePixelRatio > 0 {
				select {
				case dprCh <- cfg.DevicePixelRatio:
				default:
				}
			}
		}
	}()

	s.stream(conn, logger, dprCh, clientGone)
	logger.Info("client disconnected")
}

// stream drives one client: recorded frames on the frame ticker, heartbeats
// on the heartbeat ticker, until the recording ends or the client leaves.
func (s *Server) stream(conn *websocket.Conn, logger *slog.Logger, dprCh <-chan float64, clientGone <-chan struct{}) {
	frames := time.NewTicker(s.cfg.FrameInterval)
	defer frames.Stop()
	heartbeats := time.NewTicker(s.cfg.HeartbeatInterval)
	defer heartbeats.Stop()

	sent := make(map[string]bool)
	idx := 0

	for {
		select {
		case <-clientGone:
			return

		case dpr := <-dprCh:
			logger.Info("client set device pixel ratio", "dpr", dpr)
			// Bitmaps must be resent at the new scale.
			sent = make(map[string]bool)

		case <-heartbeats.C:
			if !s.send(conn, logger, &protocol.Message{Type: protocol.TypeHeartbeat}) {
				return
			}

		case <-frames.C:
			if idx >= len(s.cfg.Recording) {
				if !s.cfg.Loop {
					continue // keep heartbeating on an exhausted recording
				}
				idx = 0
			}
			msg := s.cfg.Recording[idx]
			idx++

			if !s.send(conn, logger, s.resolve(msg, sent)) {
				return
			}
		}
	}
}

// resolve swaps a cursor update for a signal when this client already has
// the bitmap, matching production agent behavior.
func (s *Server) resolve(msg *protocol.Message, sent map[string]bool) *protocol.Message {
	if msg.Type != protocol.TypeCursorUpdate || msg.Update == nil || msg.Update.CursorID == "" {
		return msg
	}
	id := msg.Update.CursorID
	if sent[id] {
		return &protocol.Message{
			Type:   protocol.TypeCursorSignal,
			Signal: &protocol.CursorSignal{CursorID: id},
		}
	}
	sent[id] = true
	return msg
}

func (s *Server) send(conn *websocket.Conn, logger *slog.Logger, msg *protocol.Message) bool {
	out := *msg
	out.TimestampMS = uint64(time.Now().UnixMilli())

	if err := conn.WriteMessage(websocket.BinaryMessage, out.Encode()); err != nil {
		logger.Error("send failed", "error", err, "type", msg.Type.String())
		return false
	}
	return true
}
