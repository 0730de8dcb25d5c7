package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"mascotcam/internal/gesture"
)

// pinchBase is the synthetic baseline distance used when translating a
// scroll step into one incremental pinch move.
const pinchBase = 100.0

// gesturePad is an invisible full-surface widget that turns toolkit
// input events into contact-point lists for the gesture controller.
// Dragging with mouse or finger moves the mascot; scrolling (the desktop
// stand-in for a two-finger pinch) rescales it.
type gesturePad struct {
	widget.BaseWidget
	ctrl     *gesture.Controller
	onChange func()
}

var (
	_ fyne.Draggable    = (*gesturePad)(nil)
	_ fyne.Scrollable   = (*gesturePad)(nil)
	_ desktop.Mouseable = (*gesturePad)(nil)
	_ mobile.Touchable  = (*gesturePad)(nil)
)

func newGesturePad(ctrl *gesture.Controller, onChange func()) *gesturePad {
	p := &gesturePad{ctrl: ctrl, onChange: onChange}
	p.ExtendBaseWidget(p)
	return p
}

func (p *gesturePad) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func contact(pos fyne.Position) gesture.Point {
	return gesture.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

func (p *gesturePad) MouseDown(ev *desktop.MouseEvent) {
	p.ctrl.TouchStart([]gesture.Point{contact(ev.Position)})
}

func (p *gesturePad) MouseUp(*desktop.MouseEvent) {
	p.ctrl.TouchEnd()
}

func (p *gesturePad) TouchDown(ev *mobile.TouchEvent) {
	p.ctrl.TouchStart([]gesture.Point{contact(ev.Position)})
}

func (p *gesturePad) TouchUp(*mobile.TouchEvent) {
	p.ctrl.TouchEnd()
}

func (p *gesturePad) TouchCancel(*mobile.TouchEvent) {
	p.ctrl.TouchEnd()
}

func (p *gesturePad) Dragged(ev *fyne.DragEvent) {
	// The press event normally started the drag already; cover drags
	// that arrive without one.
	if !p.ctrl.Dragging() && !p.ctrl.Pinching() {
		p.ctrl.TouchStart([]gesture.Point{contact(ev.Position)})
		return
	}
	p.ctrl.TouchMove([]gesture.Point{contact(ev.Position)})
	p.onChange()
}

func (p *gesturePad) DragEnd() {
	p.ctrl.TouchEnd()
}

// Scrolled maps one wheel step onto a complete incremental pinch: start
// at the baseline distance, move to the scaled distance, end.
func (p *gesturePad) Scrolled(ev *fyne.ScrollEvent) {
	factor := 1 + float64(ev.Scrolled.DY)/pinchBase
	if factor <= 0 {
		return
	}
	half := pinchBase / 2
	p.ctrl.TouchStart([]gesture.Point{{X: -half}, {X: half}})
	p.ctrl.TouchMove([]gesture.Point{{X: -half * factor}, {X: half * factor}})
	p.ctrl.TouchEnd()
	p.onChange()
}
