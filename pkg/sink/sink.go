package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deragabu/cursorstream/pkg/cursor"
)

// ErrNotVisible is returned when a snapshot without image data is stored.
var ErrNotVisible = errors.New("sink: snapshot carries no image")

// Sink persists cursor frames.
type Sink interface {
	// Store persists one visible snapshot. The snapshot's image bytes are
	// written as-is; sinks never re-encode.
	Store(ctx context.Context, snap *cursor.Snapshot) error
}

// imageExt sniffs the encoded format from magic bytes. The server emits
// WebP today and emitted PNG historically; GIF covers converted legacy
// cursors.
func imageExt(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "gif"
	default:
		return "bin"
	}
}

func imageContentType(data []byte) string {
	switch imageExt(data) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// frameName builds the file or object name for a snapshot:
// cursor_<unix-ms>.<ext>, matching what downstream tooling expects.
func frameName(snap *cursor.Snapshot) string {
	return fmt.Sprintf("cursor_%d.%s", snap.ReceivedAt.UnixMilli(), imageExt(snap.Image))
}

// Dir writes each visible snapshot to a file in a directory.
type Dir struct {
	dir string
}

// NewDir creates the directory if needed and returns a sink writing into
// it.
func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", dir, err)
	}
	return &Dir{dir: dir}, nil
}

// Store writes the snapshot's image bytes to cursor_<unix-ms>.<ext>.
func (d *Dir) Store(_ context.Context, snap *cursor.Snapshot) error {
	if snap.State != cursor.StateVisible || len(snap.Image) == 0 {
		return ErrNotVisible
	}
	path := filepath.Join(d.dir, frameName(snap))
	if err := os.WriteFile(path, snap.Image, 0o644); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	return nil
}
