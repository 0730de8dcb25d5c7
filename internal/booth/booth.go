// Package booth wires the live preview, gesture state and captured image
// into the screen-level state machine: Live -> capture -> Preview ->
// retake -> Live.
package booth

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mascotcam/internal/compose"
	"mascotcam/internal/gesture"
)

// Screen identifies which surface the UI shows.
type Screen int

const (
	ScreenLive Screen = iota
	ScreenPreview
)

// Capture is one composited still. It exists only between a successful
// capture and the following retake or save cycle.
type Capture struct {
	ID    uuid.UUID
	Image *image.RGBA
	PNG   []byte
	Taken time.Time
}

// Booth owns the overlay gesture controller and the optional capture.
// All mutation happens from the UI event thread.
type Booth struct {
	log      *slog.Logger
	overlay  image.Image
	caption  string
	gestures *gesture.Controller
	captured *Capture
}

// New returns a booth using overlay as the composited decoration.
func New(overlay image.Image, caption string, logger *slog.Logger) *Booth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Booth{
		log:      logger,
		overlay:  overlay,
		caption:  caption,
		gestures: gesture.NewController(),
	}
}

// Gestures returns the overlay gesture controller.
func (b *Booth) Gestures() *gesture.Controller {
	return b.gestures
}

// Overlay returns the decoration image.
func (b *Booth) Overlay() image.Image {
	return b.overlay
}

// Screen reports the current screen.
func (b *Booth) Screen() Screen {
	if b.captured != nil {
		return ScreenPreview
	}
	return ScreenLive
}

// Captured returns the current capture, or nil on the live screen.
func (b *Booth) Captured() *Capture {
	return b.captured
}

// Capture flattens frame and the positioned overlay into a still sized
// to the on-screen view. With no frame yet (camera still warming up or
// denied) it is a no-op and the booth stays live.
func (b *Booth) Capture(frame image.Image, width, height int) bool {
	img, err := compose.Snapshot(frame, width, height, b.overlay, b.gestures.State())
	if err != nil {
		b.log.Debug("capture skipped", "err", err)
		return false
	}
	compose.Stamp(img, b.caption)
	data, err := compose.EncodePNG(img)
	if err != nil {
		b.log.Error("capture encode", "err", err)
		return false
	}
	b.captured = &Capture{
		ID:    uuid.New(),
		Image: img,
		PNG:   data,
		Taken: time.Now(),
	}
	b.log.Info("captured", "id", b.captured.ID, "size", fmt.Sprintf("%dx%d", width, height))
	return true
}

// Retake discards the capture and returns to the live screen. The overlay
// transform is left untouched, so a capture/retake cycle round-trips.
func (b *Booth) Retake() {
	b.captured = nil
}

// Save writes the capture to path. No-op error when nothing is captured.
func (b *Booth) Save(path string) error {
	if b.captured == nil {
		return fmt.Errorf("nothing captured")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("save capture: %w", err)
		}
	}
	if err := os.WriteFile(path, b.captured.PNG, 0644); err != nil {
		return fmt.Errorf("save capture: %w", err)
	}
	b.log.Info("saved", "id", b.captured.ID, "path", path)
	return nil
}
