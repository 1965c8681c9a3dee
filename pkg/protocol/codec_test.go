package protocol

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestDecodeCursorUpdateRoundTrip(t *testing.T) {
	in := &Message{
		Type:        TypeCursorUpdate,
		TimestampMS: 1700000000123,
		Update: &CursorUpdate{
			CursorID:     "arrow-default",
			ImageData:    []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			Width:        32,
			Height:       32,
			HotspotX:     -4,
			HotspotY:     7,
			DPIScale:     1.5,
			IsAnimated:   true,
			FrameDelayMS: 50,
		},
	}

	out, err := Decode(in.Encode())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if out.Type != TypeCursorUpdate {
		t.Errorf("Type = %v, want CursorUpdate", out.Type)
	}
	if out.TimestampMS != in.TimestampMS {
		t.Errorf("TimestampMS = %d, want %d", out.TimestampMS, in.TimestampMS)
	}
	u := out.Update
	if u == nil {
		t.Fatal("Update = nil, want payload")
	}
	if u.CursorID != "arrow-default" {
		t.Errorf("CursorID = %q, want %q", u.CursorID, "arrow-default")
	}
	if !bytes.Equal(u.ImageData, in.Update.ImageData) {
		t.Errorf("ImageData = %v, want %v", u.ImageData, in.Update.ImageData)
	}
	if u.Width != 32 || u.Height != 32 {
		t.Errorf("dimensions = %dx%d, want 32x32", u.Width, u.Height)
	}
	if u.HotspotX != -4 || u.HotspotY != 7 {
		t.Errorf("hotspot = (%d,%d), want (-4,7)", u.HotspotX, u.HotspotY)
	}
	if u.DPIScale != 1.5 {
		t.Errorf("DPIScale = %v, want 1.5", u.DPIScale)
	}
	if !u.IsAnimated || u.FrameDelayMS != 50 {
		t.Errorf("animation = (%v, %d), want (true, 50)", u.IsAnimated, u.FrameDelayMS)
	}
}

func TestDecodeHideAndHeartbeat(t *testing.T) {
	for _, mt := range []MessageType{TypeCursorHide, TypeHeartbeat} {
		in := &Message{Type: mt, TimestampMS: 42}
		out, err := Decode(in.Encode())
		if err != nil {
			t.Fatalf("Decode(%v) error = %v", mt, err)
		}
		if out.Type != mt {
			t.Errorf("Type = %v, want %v", out.Type, mt)
		}
		if out.Update != nil || out.Signal != nil {
			t.Errorf("%v carries a payload, want none", mt)
		}
	}
}

func TestDecodeCursorSignal(t *testing.T) {
	in := &Message{
		Type:   TypeCursorSignal,
		Signal: &CursorSignal{CursorID: "ibeam"},
	}
	out, err := Decode(in.Encode())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.Signal == nil || out.Signal.CursorID != "ibeam" {
		t.Errorf("Signal = %+v, want CursorID %q", out.Signal, "ibeam")
	}
}

func TestDecodeUnknownTypeIsNotFatal(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, fieldType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 99)

	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil for unknown type", err)
	}
	if out.Known() {
		t.Errorf("Known() = true for type 99")
	}
	if got := out.Type.String(); got != "Unknown" {
		t.Errorf("Type.String() = %q, want %q", got, "Unknown")
	}
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	// A future schema revision adds envelope field 15 (bytes) and field 16
	// (varint); current decoders must skip both.
	in := &Message{Type: TypeHeartbeat}
	buf := in.Encode()
	buf = protowire.AppendTag(buf, 15, protowire.BytesType)
	buf = protowire.AppendBytes(buf, []byte("future"))
	buf = protowire.AppendTag(buf, 16, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 7)

	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.Type != TypeHeartbeat {
		t.Errorf("Type = %v, want Heartbeat", out.Type)
	}
}

func TestDecodeMalformed(t *testing.T) {
	truncated := (&Message{
		Type:   TypeCursorUpdate,
		Update: &CursorUpdate{ImageData: []byte{1, 2, 3}, Width: 1, Height: 1},
	}).Encode()
	truncated = truncated[:len(truncated)-2]

	wrongWireType := protowire.AppendTag(nil, fieldType, protowire.BytesType)
	wrongWireType = protowire.AppendBytes(wrongWireType, []byte("x"))

	updateWithoutPayload := protowire.AppendTag(nil, fieldType, protowire.VarintType)
	updateWithoutPayload = protowire.AppendVarint(updateWithoutPayload, uint64(TypeCursorUpdate))

	badTag := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated payload", truncated},
		{"wrong wire type for type field", wrongWireType},
		{"cursor update without payload", updateWithoutPayload},
		{"bad tag varint", badTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	// An empty frame decodes to an unspecified message; the receive loop
	// treats it like any other unknown type.
	out, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil) error = %v", err)
	}
	if out.Type != TypeUnspecified {
		t.Errorf("Type = %v, want Unspecified", out.Type)
	}
}

func TestDecodeImageTooLarge(t *testing.T) {
	in := &Message{
		Type: TypeCursorUpdate,
		Update: &CursorUpdate{
			ImageData: make([]byte, MaxImageBytes+1),
			Width:     1,
			Height:    1,
		},
	}
	_, err := Decode(in.Encode())
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode() error = %v, want ErrMalformed", err)
	}
}

func TestDecodeLengthPrefixBeyondFrame(t *testing.T) {
	// image_data length prefix claims more bytes than the frame carries.
	var inner []byte
	inner = protowire.AppendTag(inner, fieldDataImageData, protowire.BytesType)
	inner = protowire.AppendVarint(inner, MaxImageBytes+1)
	inner = append(inner, make([]byte, 64)...)

	var buf []byte
	buf = protowire.AppendTag(buf, fieldType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(TypeCursorUpdate))
	buf = protowire.AppendTag(buf, fieldCursorData, protowire.BytesType)
	buf = protowire.AppendBytes(buf, inner)

	_, err := Decode(buf)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode() error = %v, want ErrMalformed", err)
	}
}

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		mt   MessageType
		want string
	}{
		{TypeUnspecified, "Unspecified"},
		{TypeCursorUpdate, "CursorUpdate"},
		{TypeCursorHide, "CursorHide"},
		{TypeHeartbeat, "Heartbeat"},
		{TypeCursorSignal, "CursorSignal"},
		{MessageType(250), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mt.String(); got != tt.want {
			t.Errorf("MessageType(%d).String() = %q, want %q", tt.mt, got, tt.want)
		}
	}
}
