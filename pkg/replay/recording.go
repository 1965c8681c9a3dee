package replay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/deragabu/cursorstream/pkg/protocol"
)

// SampleRecording builds a small synthetic session: an arrow cursor, a
// hide, an I-beam cursor, another hide. Looped, the second pass exercises
// the signal path since both cursors are in the sent set by then.
func SampleRecording() ([]*protocol.Message, error) {
	arrow, err := cursorPNG(32, 32, color.RGBA{R: 230, G: 230, B: 230, A: 255})
	if err != nil {
		return nil, err
	}
	ibeam, err := cursorPNG(8, 24, color.RGBA{R: 40, G: 40, B: 40, A: 255})
	if err != nil {
		return nil, err
	}

	return []*protocol.Message{
		{
			Type: protocol.TypeCursorUpdate,
			Update: &protocol.CursorUpdate{
				CursorID:  "sample-arrow",
				ImageData: arrow,
				Width:     32,
				Height:    32,
				HotspotX:  1,
				HotspotY:  1,
				DPIScale:  1,
			},
		},
		{Type: protocol.TypeCursorHide},
		{
			Type: protocol.TypeCursorUpdate,
			Update: &protocol.CursorUpdate{
				CursorID:  "sample-ibeam",
				ImageData: ibeam,
				Width:     8,
				Height:    24,
				HotspotX:  4,
				HotspotY:  12,
				DPIScale:  1,
			},
		},
		{Type: protocol.TypeCursorHide},
	}, nil
}

// cursorPNG renders a filled wedge into a w×h PNG. Good enough to exercise
// decoding and validation; nobody is judging the artwork.
func cursorPNG(w, h int, fill color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x <= y {
				img.Set(x, y, fill)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("replay: encode sample cursor: %w", err)
	}
	return buf.Bytes(), nil
}
