package protocol

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encode serializes the message to protobuf wire format. One encoded message
// is sent as one WebSocket binary frame.
//
// Zero-valued fields are encoded explicitly (except empty payload fields) so
// the output is stable and easy to assert against in tests; the decoder
// accepts either form.
func (m *Message) Encode() []byte {
	size := 16
	if m.Update != nil {
		size += len(m.Update.ImageData) + 64
	}
	buf := make([]byte, 0, size)

	buf = protowire.AppendTag(buf, fieldType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(m.Type))

	if m.TimestampMS != 0 {
		buf = protowire.AppendTag(buf, fieldTimestampMS, protowire.VarintType)
		buf = protowire.AppendVarint(buf, m.TimestampMS)
	}

	if m.Update != nil {
		buf = protowire.AppendTag(buf, fieldCursorData, protowire.BytesType)
		buf = protowire.AppendBytes(buf, m.Update.encode())
	}

	if m.Signal != nil {
		buf = protowire.AppendTag(buf, fieldCursorSignal, protowire.BytesType)
		buf = protowire.AppendBytes(buf, m.Signal.encode())
	}

	return buf
}

func (u *CursorUpdate) encode() []byte {
	buf := make([]byte, 0, len(u.ImageData)+64)

	if u.CursorID != "" {
		buf = protowire.AppendTag(buf, fieldDataCursorID, protowire.BytesType)
		buf = protowire.AppendString(buf, u.CursorID)
	}
	if len(u.ImageData) > 0 {
		buf = protowire.AppendTag(buf, fieldDataImageData, protowire.BytesType)
		buf = protowire.AppendBytes(buf, u.ImageData)
	}

	buf = protowire.AppendTag(buf, fieldDataWidth, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(u.Width))
	buf = protowire.AppendTag(buf, fieldDataHeight, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(u.Height))

	buf = protowire.AppendTag(buf, fieldDataHotspotX, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(u.HotspotX)))
	buf = protowire.AppendTag(buf, fieldDataHotspotY, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(u.HotspotY)))

	if u.DPIScale != 0 {
		buf = protowire.AppendTag(buf, fieldDataDPIScale, protowire.Fixed32Type)
		buf = protowire.AppendFixed32(buf, math.Float32bits(u.DPIScale))
	}
	if u.IsAnimated {
		buf = protowire.AppendTag(buf, fieldDataIsAnimated, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
		buf = protowire.AppendTag(buf, fieldDataFrameDelayMS, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(u.FrameDelayMS))
	}

	return buf
}

func (s *CursorSignal) encode() []byte {
	buf := make([]byte, 0, len(s.CursorID)+4)
	buf = protowire.AppendTag(buf, fieldSignalCursorID, protowire.BytesType)
	buf = protowire.AppendString(buf, s.CursorID)
	return buf
}
