package gamepad

import "math"

type ButtonValues struct {
	A             float64 `json:"a"`
	B             float64 `json:"b"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	LeftShoulder  float64 `json:"lb"`
	RightShoulder float64 `json:"rb"`
	LeftTrigger   float64 `json:"lt"`
	RightTrigger  float64 `json:"rt"`
}

func buttonValues(b *[ButtonCount]float64) ButtonValues {
	return ButtonValues{
		A:             b[ButtonA],
		B:             b[ButtonB],
		X:             b[ButtonX],
		Y:             b[ButtonY],
		LeftShoulder:  b[LeftShoulder],
		RightShoulder: b[RightShoulder],
		LeftTrigger:   b[LeftTrigger],
		RightTrigger:  b[RightTrigger],
	}
}

type SticksState struct {
	Left  Vector `json:"left"`
	Right Vector `json:"right"`
}

// State is a snapshot of everything the normalizer tracks.
type State struct {
	Connected   bool         `json:"connected"`
	Initialized bool         `json:"initialized"`
	Name        string       `json:"name"`
	Buttons     ButtonValues `json:"buttons"`
	Sticks      SticksState  `json:"sticks"`
	Touchsticks SticksState  `json:"touchsticks"`
	Orientation Rotator      `json:"orientation"`
}

type DeltaChanges struct {
	Connected   *bool         `json:"connected,omitempty"`
	Initialized *bool         `json:"initialized,omitempty"`
	Name        *string       `json:"name,omitempty"`
	Buttons     *ButtonValues `json:"buttons,omitempty"`
	Sticks      *SticksState  `json:"sticks,omitempty"`
	Touchsticks *SticksState  `json:"touchsticks,omitempty"`
	Orientation *Rotator      `json:"orientation,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.Initialized == nil &&
		d.Name == nil &&
		d.Buttons == nil &&
		d.Sticks == nil &&
		d.Touchsticks == nil &&
		d.Orientation == nil
}

const (
	analogThreshold = 0.01
	angleThreshold  = 0.1
)

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func vectorEqual(a, b Vector) bool {
	return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y)
}

func sticksEqual(a, b SticksState) bool {
	return vectorEqual(a.Left, b.Left) && vectorEqual(a.Right, b.Right)
}

func buttonsEqual(a, b ButtonValues) bool {
	return floatEqual(a.A, b.A) &&
		floatEqual(a.B, b.B) &&
		floatEqual(a.X, b.X) &&
		floatEqual(a.Y, b.Y) &&
		floatEqual(a.LeftShoulder, b.LeftShoulder) &&
		floatEqual(a.RightShoulder, b.RightShoulder) &&
		floatEqual(a.LeftTrigger, b.LeftTrigger) &&
		floatEqual(a.RightTrigger, b.RightTrigger)
}

func rotatorEqual(a, b Rotator) bool {
	return math.Abs(a.Pitch-b.Pitch) < angleThreshold &&
		math.Abs(a.Yaw-b.Yaw) < angleThreshold &&
		math.Abs(a.Roll-b.Roll) < angleThreshold
}

func ComputeDelta(old, new_ State) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.Initialized != new_.Initialized {
		d.Initialized = &new_.Initialized
	}
	if old.Name != new_.Name {
		d.Name = &new_.Name
	}
	if !buttonsEqual(old.Buttons, new_.Buttons) {
		d.Buttons = &new_.Buttons
	}
	if !sticksEqual(old.Sticks, new_.Sticks) {
		d.Sticks = &new_.Sticks
	}
	if !sticksEqual(old.Touchsticks, new_.Touchsticks) {
		d.Touchsticks = &new_.Touchsticks
	}
	if !rotatorEqual(old.Orientation, new_.Orientation) {
		d.Orientation = &new_.Orientation
	}

	return d
}
