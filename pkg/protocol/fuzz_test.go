package protocol

import (
	"errors"
	"testing"
)

// FuzzDecode verifies the decoder never panics on arbitrary input and that
// every successfully decoded message survives an encode/decode round trip.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{})
	f.Add((&Message{Type: TypeHeartbeat, TimestampMS: 1}).Encode())
	f.Add((&Message{Type: TypeCursorHide}).Encode())
	f.Add((&Message{
		Type: TypeCursorUpdate,
		Update: &CursorUpdate{
			CursorID:  "c1",
			ImageData: []byte{1, 2, 3},
			Width:     4,
			Height:    4,
			HotspotX:  -1,
			HotspotY:  2,
		},
	}).Encode())
	f.Add((&Message{Type: TypeCursorSignal, Signal: &CursorSignal{CursorID: "c1"}}).Encode())
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := Decode(data)
		if err != nil {
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed wrapping", err)
			}
			return
		}

		again, err := Decode(m.Encode())
		if err != nil {
			t.Fatalf("re-Decode() error = %v", err)
		}
		if again.Type != m.Type {
			t.Errorf("re-decoded Type = %v, want %v", again.Type, m.Type)
		}
	})
}
