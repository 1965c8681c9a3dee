package cursor

import "time"

// State identifies what the snapshot currently says about the cursor.
type State int32

const (
	StateUnknown State = 0 // Before the first message arrives
	StateVisible State = 1 // A cursor bitmap is active
	StateHidden  State = 2 // The server hid the cursor
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case StateVisible:
		return "Visible"
	case StateHidden:
		return "Hidden"
	default:
		return "Invalid"
	}
}

// Snapshot is the current cursor as projected from the message stream.
//
// Snapshots are immutable once published: the projector builds a fresh value
// for every replacement and hands out pointers. Consumers must not mutate
// the Image slice.
//
// Image and the bitmap fields are only meaningful when State is
// StateVisible.
type Snapshot struct {
	State State

	// CursorID identifies the cursor shape; used to resolve signal
	// messages against the cache. May be empty for servers that never
	// signal.
	CursorID string

	// Image is the complete encoded bitmap, already validated against
	// Width and Height.
	Image []byte

	Width    uint32
	Height   uint32
	HotspotX int32
	HotspotY int32

	// DPIScale is the scale the bitmap was rendered for.
	DPIScale float32

	IsAnimated   bool
	FrameDelayMS uint32

	// ReceivedAt is the local arrival time of the message that produced
	// this snapshot.
	ReceivedAt time.Time
}
