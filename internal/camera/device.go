//go:build gocv

package camera

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// DeviceSource captures frames directly from local camera hardware via
// OpenCV. Built only with the gocv tag so the default build carries no
// cgo requirement.
type DeviceSource struct {
	id     int
	log    *slog.Logger
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewDeviceSource returns a source for the camera at device index id.
func NewDeviceSource(id int, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceSource{id: id, log: logger}, nil
}

// Start opens the device and begins delivering frames at roughly 30 fps.
func (s *DeviceSource) Start(ctx context.Context) (<-chan image.Image, error) {
	cam, err := gocv.VideoCaptureDevice(s.id)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", s.id, err)
	}
	cam.Set(gocv.VideoCaptureFrameWidth, 640)
	cam.Set(gocv.VideoCaptureFrameHeight, 480)

	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	frames := make(chan image.Image, 3)
	go func() {
		defer close(frames)
		defer cam.Close()
		mat := gocv.NewMat()
		defer mat.Close()

		ticker := time.NewTicker(33 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if ok := cam.Read(&mat); !ok || mat.Empty() {
				continue
			}
			img, err := mat.ToImage()
			if err != nil {
				s.log.Warn("device frame convert", "err", err)
				continue
			}
			select {
			case frames <- img:
			default:
			}
		}
	}()
	return frames, nil
}

// Stop releases the device.
func (s *DeviceSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
