// Package config holds the application settings.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Source selects how frames are acquired.
const (
	SourceMJPEG  = "mjpeg"
	SourceDevice = "device"
)

// Config configures the photo booth.
type Config struct {
	// Source is "mjpeg" (network stream) or "device" (local hardware,
	// requires the gocv build tag). Default: mjpeg.
	Source string `yaml:"source"`

	// StreamURL is the MJPEG stream endpoint.
	StreamURL string `yaml:"stream_url"`

	// DeviceID is the local camera index for the device source.
	DeviceID int `yaml:"device_id"`

	// OverlayPath optionally replaces the embedded mascot image.
	OverlayPath string `yaml:"overlay_path"`

	// OutputPath is where a saved capture is written.
	OutputPath string `yaml:"output_path"`

	// Caption, when set, is stamped onto every capture.
	Caption string `yaml:"caption"`

	// Logger for debug/error messages.
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Source == "" {
		c.Source = SourceMJPEG
	}
	if c.StreamURL == "" {
		c.StreamURL = "http://127.0.0.1:8081/video"
	}
	if c.OutputPath == "" {
		c.OutputPath = "mascot-photo.png"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Load reads a YAML config file and applies defaults. An empty path
// yields the defaults alone.
func Load(path string) (Config, error) {
	var c Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse config: %w", err)
		}
	}
	c.defaults()
	if c.Source != SourceMJPEG && c.Source != SourceDevice {
		return c, fmt.Errorf("unknown source %q", c.Source)
	}
	return c, nil
}
