package cursor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	// Formats the server is known to emit. Registration makes
	// image.DecodeConfig recognize them; pixels are never decoded here.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/deragabu/cursorstream/pkg/protocol"
)

// Validation errors. A structurally valid update can still carry an
// unusable image; these are surfaced to subscribers and never tear down the
// connection.
var (
	ErrImageDecode       = errors.New("cursor: image bytes do not decode")
	ErrDimensionMismatch = errors.New("cursor: image dimensions disagree with declared size")
	ErrUnknownCursor     = errors.New("cursor: signal for a cursor not in cache")
)

// Projector owns the current cursor snapshot.
//
// Apply must only be called from a single goroutine (the connection's
// receive loop); Current may be called from any goroutine.
type Projector struct {
	current atomic.Pointer[Snapshot]
	cache   *cursorCache

	// now is swappable for tests.
	now func() time.Time
}

// NewProjector returns a projector in the initial Unknown state.
func NewProjector() *Projector {
	p := &Projector{
		cache: newCursorCache(),
		now:   time.Now,
	}
	p.current.Store(&Snapshot{State: StateUnknown})
	return p
}

// Current returns the latest snapshot. Never nil.
func (p *Projector) Current() *Snapshot {
	return p.current.Load()
}

// Apply projects one decoded message onto the snapshot.
//
// It returns the new snapshot when the message replaced it (update, hide,
// resolved signal) and nil otherwise (heartbeat, unknown type). On a
// validation error the snapshot is left unchanged and the error is
// returned; the stream stays healthy.
func (p *Projector) Apply(msg *protocol.Message) (*Snapshot, error) {
	switch msg.Type {
	case protocol.TypeCursorUpdate:
		return p.applyUpdate(msg.Update)

	case protocol.TypeCursorHide:
		snap := &Snapshot{State: StateHidden, ReceivedAt: p.now()}
		p.current.Store(snap)
		return snap, nil

	case protocol.TypeCursorSignal:
		return p.applySignal(msg.Signal)

	case protocol.TypeHeartbeat:
		// Liveness only; the connection manager resets its deadline.
		return nil, nil

	default:
		// Unknown type: tolerated for protocol evolution, no state change.
		return nil, nil
	}
}

func (p *Projector) applyUpdate(u *protocol.CursorUpdate) (*Snapshot, error) {
	if u.Width == 0 || u.Height == 0 {
		return nil, fmt.Errorf("%w: declared %dx%d", ErrDimensionMismatch, u.Width, u.Height)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(u.ImageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	if uint32(cfg.Width) != u.Width || uint32(cfg.Height) != u.Height {
		return nil, fmt.Errorf("%w: image %dx%d, declared %dx%d",
			ErrDimensionMismatch, cfg.Width, cfg.Height, u.Width, u.Height)
	}

	snap := &Snapshot{
		State:        StateVisible,
		CursorID:     u.CursorID,
		Image:        u.ImageData,
		Width:        u.Width,
		Height:       u.Height,
		HotspotX:     u.HotspotX,
		HotspotY:     u.HotspotY,
		DPIScale:     u.DPIScale,
		IsAnimated:   u.IsAnimated,
		FrameDelayMS: u.FrameDelayMS,
		ReceivedAt:   p.now(),
	}

	if u.CursorID != "" {
		p.cache.put(u.CursorID, snap)
	}
	p.current.Store(snap)
	return snap, nil
}

func (p *Projector) applySignal(sig *protocol.CursorSignal) (*Snapshot, error) {
	cached, ok := p.cache.get(sig.CursorID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCursor, sig.CursorID)
	}

	// Fresh value with a fresh arrival time; cached snapshots stay
	// immutable.
	snap := *cached
	snap.ReceivedAt = p.now()
	p.current.Store(&snap)
	return &snap, nil
}
