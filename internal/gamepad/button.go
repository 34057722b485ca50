package gamepad

import "fmt"

// Button identifies one of the extended-layout buttons and triggers.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	LeftShoulder
	RightShoulder
	LeftTrigger
	RightTrigger

	ButtonCount
)

var buttonNames = [ButtonCount]string{
	ButtonA:       "a",
	ButtonB:       "b",
	ButtonX:       "x",
	ButtonY:       "y",
	LeftShoulder:  "lb",
	RightShoulder: "rb",
	LeftTrigger:   "lt",
	RightTrigger:  "rt",
}

// Valid reports whether b is one of the known buttons.
func (b Button) Valid() bool {
	return b >= 0 && b < ButtonCount
}

func (b Button) String() string {
	if !b.Valid() {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

// ParseButton returns the button with the given short name ("a", "lb", "rt"...).
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// ButtonAction is invoked on every press and release of the button it is
// registered for. The owner is whatever the closure captures.
type ButtonAction func(button Button, pressed bool)

// Stick identifies a thumbstick or a touchstick.
type Stick int

const (
	LeftStick Stick = iota
	RightStick

	StickCount
)

func (s Stick) String() string {
	switch s {
	case LeftStick:
		return "left"
	case RightStick:
		return "right"
	}
	return fmt.Sprintf("stick(%d)", int(s))
}

func stickIndex(left bool) Stick {
	if left {
		return LeftStick
	}
	return RightStick
}
