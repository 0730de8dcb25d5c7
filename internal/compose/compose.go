// Package compose flattens the live camera frame and the positioned
// mascot overlay into a single still image.
package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mascotcam/internal/gesture"
)

// Snapshot rasterizes frame stretched to the on-screen view size, then
// draws overlay on top, scaled by st.Scale and centered on st.Pos. The
// frame is drawn to fill the view box exactly, matching what the live
// preview shows rather than the camera's native resolution. The overlay
// composites with its own alpha channel in painter's order.
func Snapshot(frame image.Image, width, height int, overlay image.Image, st gesture.State) (*image.RGBA, error) {
	if frame == nil {
		return nil, fmt.Errorf("no frame to capture")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bad view size %dx%d", width, height)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	if overlay != nil {
		ob := overlay.Bounds()
		ow := float64(ob.Dx()) * st.Scale
		oh := float64(ob.Dy()) * st.Scale
		if ow >= 1 && oh >= 1 {
			// st.Pos is the overlay's center point.
			x0 := int(st.Pos.X - ow/2)
			y0 := int(st.Pos.Y - oh/2)
			dst := image.Rect(x0, y0, x0+int(ow), y0+int(oh))
			xdraw.ApproxBiLinear.Scale(out, dst, overlay, ob, draw.Over, nil)
		}
	}
	return out, nil
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Stamp draws a short caption into the bottom-left corner of img. Used
// for the optional capture caption; leaves img untouched when text is
// empty.
func Stamp(img *image.RGBA, text string) {
	if text == "" {
		return
	}
	b := img.Bounds()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(b.Min.X+6, b.Max.Y-6),
	}
	d.DrawString(text)
}
