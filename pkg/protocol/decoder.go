package protocol

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is the sentinel for frames that do not parse as the expected
// schema. All decode failures wrap it; match with errors.Is.
var ErrMalformed = errors.New("protocol: malformed message")

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformed}, args...)...)
}

// Envelope and payload field numbers. See doc.go for the full schema.
const (
	fieldType         = 1
	fieldTimestampMS  = 2
	fieldCursorData   = 3
	fieldCursorSignal = 4
)

const (
	fieldDataCursorID     = 1
	fieldDataImageData    = 2
	fieldDataWidth        = 3
	fieldDataHeight       = 4
	fieldDataHotspotX     = 5
	fieldDataHotspotY     = 6
	fieldDataDPIScale     = 7
	fieldDataIsAnimated   = 8
	fieldDataFrameDelayMS = 9
)

const fieldSignalCursorID = 1

// Decode parses a single binary frame into a Message.
//
// Unknown field numbers are skipped and unknown type values decode
// successfully (Message.Known reports false) — both are required for
// protocol evolution. A known field carrying the wrong wire type, a
// truncated buffer, or an oversized payload is malformed and returns an
// error wrapping ErrMalformed.
//
// Decode never panics on arbitrary input.
func Decode(data []byte) (*Message, error) {
	m := &Message{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformedf("bad tag: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldType:
			v, n, err := consumeVarint(data, typ, "type")
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, malformedf("type value %d overflows uint32", v)
			}
			m.Type = MessageType(v)
			data = data[n:]

		case fieldTimestampMS:
			v, n, err := consumeVarint(data, typ, "timestamp_ms")
			if err != nil {
				return nil, err
			}
			m.TimestampMS = v
			data = data[n:]

		case fieldCursorData:
			b, n, err := consumeBytes(data, typ, "cursor_data")
			if err != nil {
				return nil, err
			}
			u, err := decodeCursorUpdate(b)
			if err != nil {
				return nil, err
			}
			m.Update = u
			data = data[n:]

		case fieldCursorSignal:
			b, n, err := consumeBytes(data, typ, "cursor_signal")
			if err != nil {
				return nil, err
			}
			s, err := decodeCursorSignal(b)
			if err != nil {
				return nil, err
			}
			m.Signal = s
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, malformedf("bad field %d: %v", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	// A frame that names a payload-bearing type must actually carry the
	// payload; the projector depends on this.
	if m.Type == TypeCursorUpdate && m.Update == nil {
		return nil, malformedf("cursor update without cursor_data payload")
	}
	if m.Type == TypeCursorSignal && m.Signal == nil {
		return nil, malformedf("cursor signal without cursor_signal payload")
	}

	return m, nil
}

func decodeCursorUpdate(data []byte) (*CursorUpdate, error) {
	u := &CursorUpdate{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformedf("cursor_data: bad tag: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldDataCursorID:
			b, n, err := consumeBytes(data, typ, "cursor_id")
			if err != nil {
				return nil, err
			}
			if len(b) > MaxCursorIDLen {
				return nil, malformedf("cursor_id length %d exceeds limit %d", len(b), MaxCursorIDLen)
			}
			u.CursorID = string(b)
			data = data[n:]

		case fieldDataImageData:
			b, n, err := consumeBytes(data, typ, "image_data")
			if err != nil {
				return nil, err
			}
			if len(b) > MaxImageBytes {
				return nil, malformedf("image_data length %d exceeds limit %d", len(b), MaxImageBytes)
			}
			// Copy out of the frame buffer; the snapshot outlives the frame.
			u.ImageData = append([]byte(nil), b...)
			data = data[n:]

		case fieldDataWidth:
			v, n, err := consumeVarint(data, typ, "width")
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, malformedf("width %d overflows uint32", v)
			}
			u.Width = uint32(v)
			data = data[n:]

		case fieldDataHeight:
			v, n, err := consumeVarint(data, typ, "height")
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, malformedf("height %d overflows uint32", v)
			}
			u.Height = uint32(v)
			data = data[n:]

		case fieldDataHotspotX:
			v, n, err := consumeVarint(data, typ, "hotspot_x")
			if err != nil {
				return nil, err
			}
			u.HotspotX = int32(protowire.DecodeZigZag(v))
			data = data[n:]

		case fieldDataHotspotY:
			v, n, err := consumeVarint(data, typ, "hotspot_y")
			if err != nil {
				return nil, err
			}
			u.HotspotY = int32(protowire.DecodeZigZag(v))
			data = data[n:]

		case fieldDataDPIScale:
			if typ != protowire.Fixed32Type {
				return nil, malformedf("dpi_scale: wire type %d, want fixed32", typ)
			}
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, malformedf("dpi_scale: %v", protowire.ParseError(n))
			}
			u.DPIScale = math.Float32frombits(v)
			data = data[n:]

		case fieldDataIsAnimated:
			v, n, err := consumeVarint(data, typ, "is_animated")
			if err != nil {
				return nil, err
			}
			u.IsAnimated = v != 0
			data = data[n:]

		case fieldDataFrameDelayMS:
			v, n, err := consumeVarint(data, typ, "frame_delay_ms")
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, malformedf("frame_delay_ms %d overflows uint32", v)
			}
			u.FrameDelayMS = uint32(v)
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, malformedf("cursor_data: bad field %d: %v", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return u, nil
}

func decodeCursorSignal(data []byte) (*CursorSignal, error) {
	s := &CursorSignal{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, malformedf("cursor_signal: bad tag: %v", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldSignalCursorID:
			b, n, err := consumeBytes(data, typ, "cursor_id")
			if err != nil {
				return nil, err
			}
			if len(b) > MaxCursorIDLen {
				return nil, malformedf("cursor_id length %d exceeds limit %d", len(b), MaxCursorIDLen)
			}
			s.CursorID = string(b)
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, malformedf("cursor_signal: bad field %d: %v", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return s, nil
}

func consumeVarint(data []byte, typ protowire.Type, field string) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, malformedf("%s: wire type %d, want varint", field, typ)
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, malformedf("%s: %v", field, protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(data []byte, typ protowire.Type, field string) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, malformedf("%s: wire type %d, want bytes", field, typ)
	}
	b, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, malformedf("%s: %v", field, protowire.ParseError(n))
	}
	return b, n, nil
}
