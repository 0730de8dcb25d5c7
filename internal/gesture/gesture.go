// Package gesture tracks the mascot overlay's position and scale and
// interprets touch contact lists as drag and pinch gestures.
package gesture

import "math"

// Point is a planar coordinate in view pixels.
type Point struct {
	X, Y float64
}

// State is the overlay transform. Pos is the overlay's center point in
// view coordinates; Scale multiplies the overlay's natural size.
type State struct {
	Pos   Point
	Scale float64
}

type phase int

const (
	phaseNone phase = iota
	phaseDrag
	phasePinch
)

// Default overlay transform at startup.
const (
	DefaultX     = 50
	DefaultY     = 50
	DefaultScale = 0.5
)

// Controller owns one overlay's gesture state. It is not safe for
// concurrent use; all corpus callers drive it from the UI event thread.
type Controller struct {
	state    State
	phase    phase
	dragLast Point
	// pinchDist is the baseline inter-contact distance, re-recorded on
	// every pinch move so scaling compounds incrementally.
	pinchDist float64
}

// NewController returns a controller with the overlay at its default
// transform.
func NewController() *Controller {
	return &Controller{
		state: State{Pos: Point{X: DefaultX, Y: DefaultY}, Scale: DefaultScale},
	}
}

// State returns the current overlay transform.
func (c *Controller) State() State {
	return c.state
}

// Dragging reports whether a single-contact drag is in progress.
func (c *Controller) Dragging() bool { return c.phase == phaseDrag }

// Pinching reports whether a two-contact pinch is in progress.
func (c *Controller) Pinching() bool { return c.phase == phasePinch }

// TouchStart begins a gesture from the initial contact list: one contact
// starts a drag, two start a pinch. Any other count is ignored.
func (c *Controller) TouchStart(pts []Point) {
	switch len(pts) {
	case 1:
		c.phase = phaseDrag
		c.dragLast = pts[0]
	case 2:
		c.phase = phasePinch
		c.pinchDist = Distance(pts)
	}
}

// TouchMove advances the active gesture. A drag translates the overlay by
// the delta from the last recorded point and re-records the baseline, so
// translation is incremental and origin-independent. A pinch multiplies
// the scale by the ratio of the new inter-contact distance to the baseline
// and re-records the baseline, so scaling compounds per event. A zero or
// missing baseline skips the scale update but still re-records.
func (c *Controller) TouchMove(pts []Point) {
	switch {
	case c.phase == phaseDrag && len(pts) == 1:
		p := pts[0]
		c.state.Pos.X += p.X - c.dragLast.X
		c.state.Pos.Y += p.Y - c.dragLast.Y
		c.dragLast = p
	case c.phase == phasePinch && len(pts) == 2:
		d := Distance(pts)
		if c.pinchDist > 0 {
			c.state.Scale *= d / c.pinchDist
		}
		c.pinchDist = d
	}
}

// TouchEnd ends any active gesture unconditionally. Lifting one finger of
// a two-finger pinch ends the whole gesture rather than degrading to a
// drag; that is the defined behavior, matched by the tests.
func (c *Controller) TouchEnd() {
	c.phase = phaseNone
	c.pinchDist = 0
}

// Distance returns the Euclidean distance between the first two contacts,
// or 0 when fewer than two are supplied.
func Distance(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	dx := pts[1].X - pts[0].X
	dy := pts[1].Y - pts[0].Y
	return math.Sqrt(dx*dx + dy*dy)
}
