// Package assets embeds the default mascot overlay image.
package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
)

//go:embed mascot.png
var mascotPNG []byte

// Mascot decodes the embedded overlay image.
func Mascot() (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(mascotPNG))
	if err != nil {
		return nil, fmt.Errorf("decode embedded mascot: %w", err)
	}
	return img, nil
}
