package protocol

// MessageType discriminates the payload of a CursorMessage.
type MessageType uint32

const (
	TypeUnspecified  MessageType = 0 // Never sent; indicates an absent type field
	TypeCursorUpdate MessageType = 1 // Full cursor bitmap + hotspot
	TypeCursorHide   MessageType = 2 // Cursor is no longer visible
	TypeHeartbeat    MessageType = 3 // Liveness only, no payload
	TypeCursorSignal MessageType = 4 // Switch to an already-transmitted cursor
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	switch mt {
	case TypeUnspecified:
		return "Unspecified"
	case TypeCursorUpdate:
		return "CursorUpdate"
	case TypeCursorHide:
		return "CursorHide"
	case TypeHeartbeat:
		return "Heartbeat"
	case TypeCursorSignal:
		return "CursorSignal"
	default:
		return "Unknown"
	}
}

// Known reports whether the type value is one this package understands.
// Unknown values are not an error; they decode to a Message the caller can
// observe and skip.
func (mt MessageType) Known() bool {
	return mt >= TypeCursorUpdate && mt <= TypeCursorSignal
}

// Message is a single decoded protocol message. Exactly one frame decodes to
// exactly one Message.
//
// For TypeCursorUpdate, Update is non-nil. For TypeCursorSignal, Signal is
// non-nil. Hide and Heartbeat carry no payload.
type Message struct {
	Type        MessageType
	TimestampMS uint64 // Server clock, milliseconds since epoch; 0 if absent

	Update *CursorUpdate
	Signal *CursorSignal
}

// Known reports whether the message type is understood by this package.
func (m *Message) Known() bool {
	return m.Type.Known()
}

// CursorUpdate carries a complete encoded cursor bitmap with its hotspot.
type CursorUpdate struct {
	// CursorID identifies the cursor shape so the server can later refer to
	// it with a lightweight CursorSignal instead of resending the bitmap.
	CursorID string

	// ImageData is a complete encoded bitmap (WebP or PNG), not raw pixels.
	ImageData []byte

	// Width and Height are the declared pixel dimensions. The decoded image
	// must match; validation happens in the cursor package, not here.
	Width  uint32
	Height uint32

	// HotspotX and HotspotY locate the click point within the bitmap.
	HotspotX int32
	HotspotY int32

	// DPIScale is the scale the server rendered this bitmap for.
	DPIScale float32

	// IsAnimated marks an animated bitmap; FrameDelayMS is the per-frame
	// delay when it is.
	IsAnimated   bool
	FrameDelayMS uint32
}

// CursorSignal tells the client to switch to a cursor it has already
// received, identified by CursorID.
type CursorSignal struct {
	CursorID string
}
