package booth_test

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"mascotcam/internal/booth"
	"mascotcam/internal/gesture"
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func newBooth() *booth.Booth {
	overlay := uniform(10, 10, color.RGBA{R: 255, A: 255})
	return booth.New(overlay, "", nil)
}

func TestCaptureRetakeCycle(t *testing.T) {
	b := newBooth()
	if b.Screen() != booth.ScreenLive {
		t.Fatal("booth should start live")
	}

	frame := uniform(64, 48, color.RGBA{B: 255, A: 255})
	if !b.Capture(frame, 128, 96) {
		t.Fatal("capture with a frame should succeed")
	}
	if b.Screen() != booth.ScreenPreview {
		t.Fatal("capture should move to preview")
	}
	shot := b.Captured()
	if shot == nil || len(shot.PNG) == 0 {
		t.Fatal("capture missing payload")
	}
	if got := shot.Image.Bounds(); got.Dx() != 128 || got.Dy() != 96 {
		t.Fatalf("capture bounds %v, want 128x96", got)
	}

	b.Retake()
	if b.Screen() != booth.ScreenLive || b.Captured() != nil {
		t.Fatal("retake should clear the capture and return live")
	}
}

func TestCaptureNoopWithoutFrame(t *testing.T) {
	b := newBooth()
	if b.Capture(nil, 100, 100) {
		t.Fatal("capture without a frame must be a no-op")
	}
	if b.Screen() != booth.ScreenLive || b.Captured() != nil {
		t.Fatal("failed capture must leave the booth live")
	}
}

// Retake leaves the overlay transform untouched, so capturing again with
// no gesture in between is pixel-identical.
func TestRetakePreservesOverlayState(t *testing.T) {
	b := newBooth()
	c := b.Gestures()
	c.TouchStart([]gesture.Point{{X: 10, Y: 10}})
	c.TouchMove([]gesture.Point{{X: 40, Y: 25}})
	c.TouchEnd()
	moved := c.State()

	frame := uniform(64, 48, color.RGBA{G: 255, A: 255})
	if !b.Capture(frame, 100, 100) {
		t.Fatal("capture failed")
	}
	first := append([]byte(nil), b.Captured().PNG...)

	b.Retake()
	if got := b.Gestures().State(); got != moved {
		t.Fatalf("retake changed overlay state: %+v != %+v", got, moved)
	}

	if !b.Capture(frame, 100, 100) {
		t.Fatal("second capture failed")
	}
	if !bytes.Equal(first, b.Captured().PNG) {
		t.Fatal("capture/retake/capture is not pixel-identical")
	}
}

func TestSave(t *testing.T) {
	b := newBooth()
	if err := b.Save(filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("save without capture should fail")
	}

	frame := uniform(32, 32, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	if !b.Capture(frame, 50, 50) {
		t.Fatal("capture failed")
	}

	path := filepath.Join(t.TempDir(), "shots", "mascot-photo.png")
	if err := b.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, b.Captured().PNG) {
		t.Fatal("saved file differs from capture payload")
	}
}

func TestCaptureIDsAreUnique(t *testing.T) {
	b := newBooth()
	frame := uniform(16, 16, color.RGBA{A: 255})
	if !b.Capture(frame, 20, 20) {
		t.Fatal("capture failed")
	}
	first := b.Captured().ID
	b.Retake()
	if !b.Capture(frame, 20, 20) {
		t.Fatal("capture failed")
	}
	if b.Captured().ID == first {
		t.Fatal("capture ids should differ per capture")
	}
}
