package gamepad

// Sample is one poll of a controller, already normalized.
type Sample struct {
	Buttons [ButtonCount]float64
	Sticks  [StickCount]Vector
}

// RawReader exposes the raw values of a polled device.
type RawReader interface {
	Axis(index int32) int16
	Button(index int32) bool
	NumButtons() int32
	NumAxes() int32
}

// Read polls r through the mapping. Digital buttons read 1 or 0; trigger
// axes read their normalized travel. Values inside deadzone read 0.
func (m *DeviceMapping) Read(r RawReader, deadzone float64) Sample {
	var s Sample

	numAxes := r.NumAxes()
	for _, am := range m.Axes {
		if am.Index >= numAxes {
			continue
		}
		raw := r.Axis(am.Index)
		if am.IsTrigger() {
			val := ApplyDeadzone(NormalizeTrigger(raw, am.RawMin, am.RawMax), deadzone)
			switch am.Target {
			case "lt":
				s.Buttons[LeftTrigger] = val
			case "rt":
				s.Buttons[RightTrigger] = val
			}
			continue
		}

		val := NormalizeAxis(raw)
		if am.Invert {
			val = -val
		}
		val = ApplyDeadzone(val, deadzone)
		switch am.Target {
		case "left_x":
			s.Sticks[LeftStick].X = val
		case "left_y":
			s.Sticks[LeftStick].Y = val
		case "right_x":
			s.Sticks[RightStick].X = val
		case "right_y":
			s.Sticks[RightStick].Y = val
		}
	}

	numButtons := r.NumButtons()
	for _, bm := range m.Buttons {
		if bm.Index >= numButtons || !bm.Button.Valid() {
			continue
		}
		if r.Button(bm.Index) {
			s.Buttons[bm.Button] = 1
		}
	}

	return s
}

// DiffSamples returns one event per element whose value changed between prev
// and cur, buttons first in identifier order, then sticks.
func DiffSamples(prev, cur Sample) []Event {
	var events []Event
	for i := Button(0); i < ButtonCount; i++ {
		if prev.Buttons[i] != cur.Buttons[i] {
			events = append(events, ButtonEvent{
				Button:  i,
				Value:   cur.Buttons[i],
				Pressed: cur.Buttons[i] > 0,
			})
		}
	}
	for i := Stick(0); i < StickCount; i++ {
		if prev.Sticks[i] != cur.Sticks[i] {
			events = append(events, StickEvent{Stick: i, X: cur.Sticks[i].X, Y: cur.Sticks[i].Y})
		}
	}
	return events
}
