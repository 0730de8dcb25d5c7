// mascotcam is a small photo booth: it shows a live camera feed with a
// draggable, pinchable mascot overlay and captures composited stills.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"mascotcam/internal/assets"
	"mascotcam/internal/booth"
	"mascotcam/internal/camera"
	"mascotcam/internal/config"
)

type boothApp struct {
	fyneApp fyne.App
	window  fyne.Window

	cfg config.Config
	log *slog.Logger

	// UI elements
	liveImage    *canvas.Image // live video surface
	previewImage *canvas.Image // captured still
	overlayImage *canvas.Image // mascot, manually positioned
	overlayPane  *fyne.Container
	pad          *gesturePad
	deniedLabel  *widget.Label
	statusLabel  *widget.Label
	captureBtn   *widget.Button
	saveBtn      *widget.Button
	retakeBtn    *widget.Button
	liveView     *fyne.Container
	previewView  *fyne.Container

	// State (mutated on the UI thread only)
	booth      *booth.Booth
	permission camera.Permission
	source     camera.Source
	cancel     context.CancelFunc
	lastFrame  image.Image

	// FPS bookkeeping
	frameCount  int
	lastFPSTime time.Time
	cameraFPS   float64
}

func newBoothApp(cfg config.Config, overlay image.Image, source camera.Source) *boothApp {
	a := app.New()
	w := a.NewWindow("Mascot Photo Booth")

	ba := &boothApp{
		fyneApp: a,
		window:  w,
		cfg:     cfg,
		log:     cfg.Logger,
		booth:   booth.New(overlay, cfg.Caption, cfg.Logger),
		source:  source,
	}

	ba.initUI()
	w.SetContent(ba.createContent())
	w.Resize(fyne.NewSize(800, 600))
	w.SetOnClosed(ba.onClosing)
	return ba
}

func (a *boothApp) initUI() {
	a.liveImage = canvas.NewImageFromImage(nil)
	a.liveImage.FillMode = canvas.ImageFillStretch
	a.liveImage.ScaleMode = canvas.ImageScaleFastest

	a.previewImage = canvas.NewImageFromImage(nil)
	a.previewImage.FillMode = canvas.ImageFillContain

	a.overlayImage = canvas.NewImageFromImage(a.booth.Overlay())
	a.overlayImage.FillMode = canvas.ImageFillStretch
	a.overlayPane = container.NewWithoutLayout(a.overlayImage)

	a.pad = newGesturePad(a.booth.Gestures(), a.applyOverlayState)

	a.deniedLabel = widget.NewLabel("Waiting for camera...")
	a.deniedLabel.Alignment = fyne.TextAlignCenter

	a.statusLabel = widget.NewLabel("Starting")

	a.captureBtn = widget.NewButton("Capture", a.onCapture)
	a.saveBtn = widget.NewButton("Save", a.onSave)
	a.retakeBtn = widget.NewButton("Retake", a.onRetake)
}

func (a *boothApp) createContent() fyne.CanvasObject {
	a.liveView = container.NewStack(
		a.deniedLabel,
		a.liveImage,
		a.overlayPane,
		a.pad,
	)
	a.previewView = container.NewStack(a.previewImage)

	buttons := container.NewHBox(a.captureBtn, a.saveBtn, a.retakeBtn)
	bottom := container.NewBorder(nil, nil, nil, buttons, a.statusLabel)

	a.showLive()
	a.applyOverlayState()

	return container.NewBorder(
		nil,    // top
		bottom, // bottom
		nil, nil,
		container.NewStack(a.liveView, a.previewView),
	)
}

// applyOverlayState repositions the on-screen mascot from the gesture
// state. The stored position is the overlay's center point.
func (a *boothApp) applyOverlayState() {
	st := a.booth.Gestures().State()
	ob := a.booth.Overlay().Bounds()
	w := float32(float64(ob.Dx()) * st.Scale)
	h := float32(float64(ob.Dy()) * st.Scale)
	a.overlayImage.Resize(fyne.NewSize(w, h))
	a.overlayImage.Move(fyne.NewPos(float32(st.Pos.X)-w/2, float32(st.Pos.Y)-h/2))
	a.overlayImage.Refresh()
}

func (a *boothApp) showLive() {
	a.previewView.Hide()
	a.liveView.Show()
	a.captureBtn.Show()
	a.saveBtn.Hide()
	a.retakeBtn.Hide()
}

func (a *boothApp) showPreview() {
	a.liveView.Hide()
	a.previewView.Show()
	a.captureBtn.Hide()
	a.saveBtn.Show()
	a.retakeBtn.Show()
	a.statusLabel.SetText("Preview")
}

func (a *boothApp) onCapture() {
	size := a.liveImage.Size()
	if !a.booth.Capture(a.lastFrame, int(size.Width), int(size.Height)) {
		// Surfaces not ready yet; stay live.
		return
	}
	a.previewImage.Image = a.booth.Captured().Image
	a.previewImage.Refresh()
	a.showPreview()
}

func (a *boothApp) onSave() {
	if err := a.booth.Save(a.cfg.OutputPath); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.statusLabel.SetText("Saved " + a.cfg.OutputPath)
}

func (a *boothApp) onRetake() {
	a.booth.Retake()
	a.showLive()
	a.statusLabel.SetText("Live")
}

// startCamera requests the stream and resolves the permission state
// exactly once. On failure the user gets a static instruction; there is
// no automatic retry.
func (a *boothApp) startCamera() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go func() {
		frames, err := a.source.Start(ctx)
		if err != nil {
			a.permission.Deny()
			a.log.Error("camera start", "err", err)
			fyne.Do(func() {
				a.deniedLabel.SetText("Camera unavailable.\nCheck the camera permission or stream address and restart.")
				a.statusLabel.SetText("Camera " + a.permission.State().String())
			})
			return
		}
		a.permission.Grant()
		fyne.Do(func() {
			a.statusLabel.SetText("Live")
		})
		a.consumeFrames(frames)
	}()
}

// consumeFrames forwards decoded frames onto the UI thread until the
// source closes the channel.
func (a *boothApp) consumeFrames(frames <-chan image.Image) {
	for frame := range frames {
		f := frame
		fyne.Do(func() {
			a.lastFrame = f
			if a.deniedLabel.Visible() {
				a.deniedLabel.Hide()
			}
			if a.booth.Screen() == booth.ScreenLive {
				a.liveImage.Image = f
				a.liveImage.Refresh()
			}
			a.tickFPS()
		})
	}
	a.log.Info("camera stream ended")
}

func (a *boothApp) tickFPS() {
	a.frameCount++
	now := time.Now()
	if a.lastFPSTime.IsZero() {
		a.lastFPSTime = now
		return
	}
	if d := now.Sub(a.lastFPSTime); d >= 500*time.Millisecond {
		a.cameraFPS = float64(a.frameCount) / d.Seconds()
		a.frameCount = 0
		a.lastFPSTime = now
		if a.booth.Screen() == booth.ScreenLive {
			a.statusLabel.SetText(fmt.Sprintf("Live | %.1f fps", a.cameraFPS))
		}
	}
}

// onClosing releases the camera regardless of whether acquisition has
// resolved yet.
func (a *boothApp) onClosing() {
	if a.cancel != nil {
		a.cancel()
	}
	a.source.Stop()
}

func (a *boothApp) run() {
	a.startCamera()
	a.window.ShowAndRun()
}

func loadOverlay(path string) (image.Image, error) {
	if path == "" {
		return assets.Mascot()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open overlay: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}
	return img, nil
}

func main() {
	cfgPath := flag.String("config", "", "optional YAML config file")
	streamURL := flag.String("stream", "", "MJPEG stream URL")
	sourceKind := flag.String("source", "", "frame source: mjpeg or device")
	deviceID := flag.Int("device", -1, "camera device index for the device source")
	overlayPath := flag.String("overlay", "", "overlay image path (default: embedded mascot)")
	output := flag.String("output", "", "capture output path")
	caption := flag.String("caption", "", "caption stamped onto captures")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	if *streamURL != "" {
		cfg.StreamURL = *streamURL
	}
	if *sourceKind != "" {
		cfg.Source = *sourceKind
	}
	if *deviceID >= 0 {
		cfg.DeviceID = *deviceID
	}
	if *overlayPath != "" {
		cfg.OverlayPath = *overlayPath
	}
	if *output != "" {
		cfg.OutputPath = *output
	}
	if *caption != "" {
		cfg.Caption = *caption
	}
	cfg.Logger = logger

	overlay, err := loadOverlay(cfg.OverlayPath)
	if err != nil {
		logger.Error("overlay", "err", err)
		os.Exit(1)
	}

	var source camera.Source
	switch cfg.Source {
	case config.SourceDevice:
		source, err = camera.NewDeviceSource(cfg.DeviceID, logger)
		if err != nil {
			logger.Error("camera", "err", err)
			os.Exit(1)
		}
	case config.SourceMJPEG:
		source = camera.NewMJPEGSource(cfg.StreamURL, logger)
	default:
		logger.Error("camera", "err", fmt.Errorf("unknown source %q", cfg.Source))
		os.Exit(1)
	}

	newBoothApp(cfg, overlay, source).run()
}
