// Package protocol implements the binary wire protocol for the deragabu
// cursor stream.
//
// The server pushes one protobuf-encoded CursorMessage per WebSocket binary
// frame; frame boundaries are message boundaries, so there is no additional
// framing layer. The package decodes frames into a tagged Message and encodes
// Messages back to bytes for the replay server and for tests.
//
// # Wire Schema
//
// The canonical schema, in proto3 terms:
//
//	enum MessageType {
//	    MESSAGE_TYPE_UNSPECIFIED   = 0;
//	    MESSAGE_TYPE_CURSOR_UPDATE = 1;
//	    MESSAGE_TYPE_CURSOR_HIDE   = 2;
//	    MESSAGE_TYPE_HEARTBEAT     = 3;
//	    MESSAGE_TYPE_CURSOR_SIGNAL = 4;
//	}
//
//	message CursorMessage {
//	    MessageType  type          = 1;
//	    uint64       timestamp_ms  = 2;
//	    CursorData   cursor_data   = 3;
//	    CursorSignal cursor_signal = 4;
//	}
//
//	message CursorData {
//	    string cursor_id      = 1;
//	    bytes  image_data     = 2;  // complete encoded bitmap (WebP or PNG)
//	    uint32 width          = 3;
//	    uint32 height         = 4;
//	    sint32 hotspot_x      = 5;
//	    sint32 hotspot_y      = 6;
//	    float  dpi_scale      = 7;
//	    bool   is_animated    = 8;
//	    uint32 frame_delay_ms = 9;
//	}
//
//	message CursorSignal {
//	    string cursor_id = 1;
//	}
//
// Decoding is done directly with protowire rather than generated code: the
// schema is small and stable, and hand decoding keeps the codec allocation
// light and lets it skip unknown fields and tolerate unknown type values,
// which is required for protocol evolution. A frame whose type value is not
// listed above still decodes successfully; Message.Known reports false and
// the caller decides how to surface it.
//
// The codec never inspects image pixels. image_data is carried as an opaque
// byte slice; pixel-level validation belongs to the cursor package.
package protocol
