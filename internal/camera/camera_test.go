package camera_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"mascotcam/internal/camera"
)

func TestPermissionSingleTransition(t *testing.T) {
	var p camera.Permission
	if p.State() != camera.PermissionPending {
		t.Fatalf("initial state = %v, want pending", p.State())
	}
	if !p.Grant() {
		t.Fatal("first Grant should transition")
	}
	if p.State() != camera.PermissionGranted {
		t.Fatalf("state = %v, want granted", p.State())
	}
	if p.Grant() {
		t.Fatal("second Grant must not transition")
	}
	if p.Deny() {
		t.Fatal("Deny after Grant must not transition")
	}
	if p.State() != camera.PermissionGranted {
		t.Fatalf("state moved after resolution: %v", p.State())
	}

	var q camera.Permission
	if !q.Deny() {
		t.Fatal("first Deny should transition")
	}
	if q.Grant() {
		t.Fatal("Grant after Deny must not transition")
	}
	if q.State() != camera.PermissionDenied {
		t.Fatalf("state = %v, want denied", q.State())
	}
}

func TestPermissionStrings(t *testing.T) {
	tests := []struct {
		state camera.PermissionState
		want  string
	}{
		{camera.PermissionPending, "pending"},
		{camera.PermissionGranted, "granted"},
		{camera.PermissionDenied, "denied"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

// mjpegServer streams count solid-color JPEG frames and then ends.
func mjpegServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	frame := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for i := range frame.Pix {
		frame.Pix[i] = 0xff
	}
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, frame, nil); err != nil {
		t.Fatal(err)
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := multipart.NewWriter(w)
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
		w.WriteHeader(http.StatusOK)
		for i := 0; i < count; i++ {
			part, err := mw.CreatePart(textproto.MIMEHeader{
				"Content-Type": {"image/jpeg"},
			})
			if err != nil {
				return
			}
			part.Write(jpg.Bytes())
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			time.Sleep(5 * time.Millisecond)
		}
		mw.Close()
	}))
}

func TestMJPEGSourceDeliversFrames(t *testing.T) {
	srv := mjpegServer(t, 3)
	defer srv.Close()

	src := camera.NewMJPEGSource(srv.URL, nil)
	defer src.Stop()

	frames, err := src.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case img, ok := <-frames:
		if !ok {
			t.Fatal("frame channel closed before any frame")
		}
		if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
			t.Fatalf("frame bounds %v, want 16x12", b)
		}
		if c := color.RGBAModel.Convert(img.At(8, 6)).(color.RGBA); c.R < 0xf0 {
			t.Fatalf("frame pixel %v, want near-white", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame within deadline")
	}
}

func TestMJPEGSourceClosesChannelOnEOF(t *testing.T) {
	srv := mjpegServer(t, 1)
	defer srv.Close()

	src := camera.NewMJPEGSource(srv.URL, nil)
	defer src.Stop()

	frames, err := src.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return // closed as expected
			}
		case <-deadline:
			t.Fatal("channel not closed after stream end")
		}
	}
}

func TestMJPEGSourceRejectsWrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	src := camera.NewMJPEGSource(srv.URL, nil)
	if _, err := src.Start(context.Background()); err == nil {
		t.Fatal("expected error for non-multipart response")
	}
}

func TestMJPEGSourceRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	src := camera.NewMJPEGSource(srv.URL, nil)
	if _, err := src.Start(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

// Stop before Start models teardown during a pending acquisition: the
// source must refuse to start afterward instead of leaking the stream.
func TestMJPEGSourceStopBeforeStart(t *testing.T) {
	srv := mjpegServer(t, 3)
	defer srv.Close()

	src := camera.NewMJPEGSource(srv.URL, nil)
	src.Stop()
	if _, err := src.Start(context.Background()); err == nil {
		t.Fatal("expected error starting a stopped source")
	}
	src.Stop() // repeated stop stays safe
}

func TestMJPEGSourceStopEndsStream(t *testing.T) {
	srv := mjpegServer(t, 1000)
	defer srv.Close()

	src := camera.NewMJPEGSource(srv.URL, nil)
	frames, err := src.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame before stop")
	}
	src.Stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Stop")
		}
	}
}
