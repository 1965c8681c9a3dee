package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deragabu/cursorstream/pkg/protocol"
)

// closeGrace bounds the graceful close handshake when the client stops.
const closeGrace = time.Second

// run is the connection lifecycle loop: connect, receive until failure,
// back off, repeat. It exits only on context cancellation and is the sole
// writer of ConnState and the sole caller of the codec and projector.
func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(StateDisconnected)

	bo := newBackoff(c.cfg.BackoffBase, c.cfg.BackoffMax)

	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx, bo.Attempt()+1)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.reportError(fmt.Errorf("client: connect %s: %w", c.cfg.URL, err))
			if !c.waitReconnect(ctx, bo) {
				return
			}
			continue
		}

		c.setState(StateConnected)
		connectedAt := time.Now()
		c.receive(ctx, conn)

		if ctx.Err() != nil {
			return
		}
		if time.Since(connectedAt) >= c.cfg.BackoffResetAfter {
			bo.Reset()
		}
		if !c.waitReconnect(ctx, bo) {
			return
		}
	}
}

// dial performs one connection attempt, including the post-connect device
// pixel ratio announcement.
func (c *Client) dial(ctx context.Context, attempt int) (*websocket.Conn, error) {
	ctx, finish := c.traceConnect(ctx, attempt)

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		finish(err)
		return nil, err
	}

	if c.cfg.DevicePixelRatio > 0 {
		cfgFrame := fmt.Sprintf(`{"device_pixel_ratio": %.2f}`, c.cfg.DevicePixelRatio)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(cfgFrame)); err != nil {
			conn.Close()
			finish(err)
			return nil, err
		}
	}

	finish(nil)
	c.logger.Info("connected", "url", c.cfg.URL, "attempt", attempt)
	return conn, nil
}

// waitReconnect publishes the Reconnecting state and sleeps out the backoff
// delay. It returns false when the context was cancelled, which includes a
// Stop issued mid-backoff.
func (c *Client) waitReconnect(ctx context.Context, bo *backoff) bool {
	c.setState(StateReconnecting)
	c.cfg.Metrics.IncReconnect()

	delay := bo.Next()
	c.logger.Info("reconnecting", "delay", delay, "attempt", bo.Attempt())

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// receive reads frames until the connection dies or the context is
// cancelled. Each decodable frame — heartbeats included — extends the read
// deadline, which doubles as the heartbeat timeout: a server that goes
// quiet is treated exactly like a dead connection.
func (c *Client) receive(ctx context.Context, conn *websocket.Conn) {
	readerDone := make(chan struct{})
	defer close(readerDone)
	defer conn.Close()

	// Tear the socket down when Stop fires so the blocked read returns
	// promptly instead of waiting out the heartbeat deadline.
	go func() {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client stopping")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
			conn.Close()
		case <-readerDone:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(c.cfg.HeartbeatTimeout))

		mt, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var netErr net.Error
			switch {
			case errors.As(err, &netErr) && netErr.Timeout():
				c.reportError(fmt.Errorf("client: no frame within heartbeat timeout %s: %w",
					c.cfg.HeartbeatTimeout, err))
			case websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway):
				c.reportError(fmt.Errorf("client: connection lost: %w", err))
			default:
				c.reportError(fmt.Errorf("client: read: %w", err))
			}
			return
		}

		if mt != websocket.BinaryMessage {
			c.logger.Debug("ignoring non-binary frame", "type", mt, "bytes", len(data))
			continue
		}

		c.cfg.Metrics.ObserveFrameBytes(len(data))

		msg, err := protocol.Decode(data)
		if err != nil {
			// One malformed frame never forfeits an otherwise healthy
			// stream.
			c.cfg.Metrics.IncDecodeError()
			c.reportError(err)
			continue
		}

		c.cfg.Metrics.ObserveMessage(msg.Type)

		if !msg.Known() {
			// Tolerated for protocol evolution; the projector treats it
			// as a no-op.
			c.logger.Warn("unknown message type", "type", uint32(msg.Type))
		}

		snap, err := c.projector.Apply(msg)
		if err != nil {
			c.cfg.Metrics.IncValidationError()
			c.reportError(err)
			continue
		}
		if snap != nil && c.cfg.Handlers.OnSnapshot != nil {
			c.cfg.Handlers.OnSnapshot(snap)
		}
	}
}
