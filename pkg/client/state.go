package client

// ConnState is the connection lifecycle state. The receive loop is the only
// writer; transitions are surfaced through Handlers.OnStateChange in the
// order they occur.
type ConnState int32

const (
	StateDisconnected ConnState = 0 // Terminal; reached only through Stop
	StateConnecting   ConnState = 1 // Dial and handshake in progress
	StateConnected    ConnState = 2 // Frames flowing, heartbeat deadline armed
	StateReconnecting ConnState = 3 // Waiting out backoff after a failure
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateReconnecting:
		return "Reconnecting"
	default:
		return "Invalid"
	}
}
