//go:build !gocv

package camera

import (
	"fmt"
	"log/slog"
)

// NewDeviceSource is unavailable without the gocv build tag.
func NewDeviceSource(id int, logger *slog.Logger) (Source, error) {
	return nil, fmt.Errorf("device capture requires building with -tags gocv")
}
