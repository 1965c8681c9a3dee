package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/deragabu/cursorstream/pkg/cursor"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\nrest-of-file")

func visibleSnap(img []byte) *cursor.Snapshot {
	return &cursor.Snapshot{
		State:      cursor.StateVisible,
		CursorID:   "arrow",
		Image:      img,
		Width:      32,
		Height:     32,
		HotspotX:   2,
		HotspotY:   3,
		ReceivedAt: time.UnixMilli(1700000000123),
	}
}

func TestImageExt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngMagic, "png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"gif", []byte("GIF89a..."), "gif"},
		{"unknown", []byte("junk"), "bin"},
	}
	for _, tt := range tests {
		if got := imageExt(tt.data); got != tt.want {
			t.Errorf("imageExt(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDirStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	d, err := NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir() error = %v", err)
	}

	if err := d.Store(context.Background(), visibleSnap(pngMagic)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cursor_1700000000123.png"))
	if err != nil {
		t.Fatalf("reading stored frame: %v", err)
	}
	if string(data) != string(pngMagic) {
		t.Error("stored bytes differ from snapshot image")
	}
}

func TestDirStoreRejectsNonVisible(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir() error = %v", err)
	}

	err = d.Store(context.Background(), &cursor.Snapshot{State: cursor.StateHidden})
	if !errors.Is(err, ErrNotVisible) {
		t.Errorf("Store(hidden) error = %v, want ErrNotVisible", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{}
	snk := NewS3(fake, "cursors-bucket", "frames/")

	if err := snk.Store(context.Background(), visibleSnap(pngMagic)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	in := fake.input
	if in == nil {
		t.Fatal("PutObject not called")
	}
	if got := *in.Bucket; got != "cursors-bucket" {
		t.Errorf("Bucket = %q, want %q", got, "cursors-bucket")
	}
	if got := *in.Key; got != "frames/cursor_1700000000123.png" {
		t.Errorf("Key = %q", got)
	}
	if got := *in.ContentType; got != "image/png" {
		t.Errorf("ContentType = %q, want image/png", got)
	}
	if got := in.Metadata["cursor-id"]; got != "arrow" {
		t.Errorf("Metadata[cursor-id] = %q, want arrow", got)
	}
	if got := in.Metadata["width"]; got != "32" {
		t.Errorf("Metadata[width] = %q, want 32", got)
	}

	body, err := io.ReadAll(in.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(body) != string(pngMagic) {
		t.Error("uploaded bytes differ from snapshot image")
	}
}

func TestS3StoreWrapsUploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	snk := NewS3(fake, "b", "")

	err := snk.Store(context.Background(), visibleSnap(pngMagic))
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Errorf("Store() error = %v, want wrapped upload error", err)
	}
}
