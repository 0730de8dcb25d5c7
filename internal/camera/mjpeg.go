package camera

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"
)

// MJPEGSource reads frames from a multipart/x-mixed-replace JPEG stream,
// the usual transport for network cameras.
type MJPEGSource struct {
	url string
	log *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewMJPEGSource returns a source for the stream at url.
func NewMJPEGSource(url string, logger *slog.Logger) *MJPEGSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &MJPEGSource{url: url, log: logger}
}

// Start connects to the stream and begins delivering decoded frames. The
// connection is established synchronously so the caller learns the
// permission outcome; decoding then continues in the background until the
// context is cancelled or Stop is called. The returned channel is closed
// when the stream ends.
func (s *MJPEGSource) Start(ctx context.Context) (<-chan image.Image, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil, fmt.Errorf("mjpeg source already stopped")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "multipart/x-mixed-replace")
	req.Header.Set("Cache-Control", "no-cache")

	// No overall client timeout: the body is a never-ending stream.
	// Only the response headers are required promptly.
	client := &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: 10 * time.Second,
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	frames := make(chan image.Image, 3)
	go s.readLoop(ctx, resp.Body, params["boundary"], frames)
	return frames, nil
}

func (s *MJPEGSource) readLoop(ctx context.Context, body io.ReadCloser, boundary string, frames chan<- image.Image) {
	defer close(frames)
	defer body.Close()

	mr := multipart.NewReader(body, boundary)
	buf := new(bytes.Buffer)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		part, err := mr.NextPart()
		if err == io.EOF {
			s.log.Debug("mjpeg stream ended")
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				s.log.Warn("mjpeg read", "err", err)
			}
			return
		}

		buf.Reset()
		_, err = io.Copy(buf, part)
		part.Close()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		img, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			s.log.Warn("mjpeg decode", "err", err, "bytes", buf.Len())
			continue
		}

		select {
		case frames <- img:
		case <-ctx.Done():
			return
		default:
			// Consumer is behind; drop the frame.
		}
	}
}

// Stop releases the stream. Safe to call at any time, including before a
// successful Start or more than once.
func (s *MJPEGSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
