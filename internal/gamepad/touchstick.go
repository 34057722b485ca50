package gamepad

const (
	// DefaultTouchRadius is the displacement in pixels at which a touchstick
	// saturates.
	DefaultTouchRadius = 100.0
	normalTolerance    = 0.001
)

// Touch is a single touch point in viewport coordinates.
type Touch struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Pressed bool    `json:"pressed"`
}

// touchstick is a floating virtual joystick: the center is wherever the
// finger first lands and stays there until release.
type touchstick struct {
	firstTouch bool
	radius     float64
	center     Vector
	pos        Vector
}

func newTouchstick(radius float64) touchstick {
	return touchstick{firstTouch: true, radius: radius}
}

func (t *touchstick) update(x, y float64, pressed bool) {
	if !pressed {
		t.reset()
		return
	}
	if t.firstTouch {
		t.firstTouch = false
		t.center = Vector{X: x, Y: y}
	}
	t.pos = Vector{X: x, Y: y}
}

func (t *touchstick) reset() {
	t.firstTouch = true
	t.center = Vector{}
	t.pos = Vector{}
}

// value is the unit direction from center to position, scaled by how far
// toward the radius the touch has moved.
func (t *touchstick) value() Vector {
	dir := t.pos.Sub(t.center)
	dist := dir.Size()
	if dist >= t.radius {
		dist = 1
	} else {
		dist /= t.radius
	}
	return dir.SafeNormal(normalTolerance).Scale(dist)
}
