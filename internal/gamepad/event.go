package gamepad

// Event is a hardware input notification delivered through
// Normalizer.Dispatch: a ButtonEvent, StickEvent or DisconnectEvent.
type Event interface {
	isEvent()
}

// ButtonEvent reports a value change on a button or trigger.
type ButtonEvent struct {
	Button  Button
	Value   float64
	Pressed bool
}

// StickEvent reports a new position for a thumbstick.
type StickEvent struct {
	Stick Stick
	X     float64
	Y     float64
}

// DisconnectEvent reports that the controller was unplugged. It is the last
// event a controller delivers.
type DisconnectEvent struct{}

func (ButtonEvent) isEvent() {}
func (StickEvent) isEvent() {}
func (DisconnectEvent) isEvent() {}

// EventHandler receives events from a Controller.
type EventHandler func(Event)

// Controller is a single connected hardware gamepad.
type Controller interface {
	Name() string
	// Extended reports whether the controller provides the full layout of
	// face buttons, shoulders, triggers and two thumbsticks.
	Extended() bool
	// SetEventHandler installs h as the receiver of value-changed events.
	// A nil handler detaches.
	SetEventHandler(h EventHandler)
}

// Source enumerates connected controllers.
type Source interface {
	Controllers() []Controller
}
