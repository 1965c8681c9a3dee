package protocol

// Allocation limits to prevent OOM from hostile or corrupt length prefixes.
const (
	// MaxImageBytes caps the size of a single cursor bitmap. Real cursors
	// are a few KB; even a large animated cursor stays well under 1MB.
	MaxImageBytes = 8 << 20

	// MaxCursorIDLen caps the cursor_id string. IDs are content hashes on
	// the server side and are short.
	MaxCursorIDLen = 512
)
