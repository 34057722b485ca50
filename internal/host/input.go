// Package host is a headless stand-in for the game engine: it owns input
// bindings, the controlled pawn and the frame loop that drives them.
package host

import (
	"sync"

	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/gamepad"
)

type actionKey struct {
	name  string
	event character.InputEvent
}

type axisBinding struct {
	name string
	fn   func(float64)
}

// InputComponent stores action, axis and touch bindings and fires them.
// Bindings run without the lock held.
type InputComponent struct {
	mu         sync.Mutex
	actions    map[actionKey][]func()
	axes       []axisBinding
	axisValues map[string]float64
	touches    map[character.InputEvent][]character.TouchFunc
}

// NewInputComponent returns a component with no bindings.
func NewInputComponent() *InputComponent {
	return &InputComponent{
		actions:    make(map[actionKey][]func()),
		axisValues: make(map[string]float64),
		touches:    make(map[character.InputEvent][]character.TouchFunc),
	}
}

func (ic *InputComponent) BindAction(name string, event character.InputEvent, fn func()) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	k := actionKey{name, event}
	ic.actions[k] = append(ic.actions[k], fn)
}

func (ic *InputComponent) BindAxis(name string, fn func(value float64)) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.axes = append(ic.axes, axisBinding{name, fn})
}

func (ic *InputComponent) BindTouch(event character.InputEvent, fn character.TouchFunc) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.touches[event] = append(ic.touches[event], fn)
}

// SetAxis sets the value reported to name's bindings on every Tick until
// changed.
func (ic *InputComponent) SetAxis(name string, value float64) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.axisValues[name] = value
}

// Action fires the bindings of name for a press or release. It reports
// whether anything was bound.
func (ic *InputComponent) Action(name string, pressed bool) bool {
	event := character.Released
	if pressed {
		event = character.Pressed
	}
	ic.mu.Lock()
	fns := append([]func(){}, ic.actions[actionKey{name, event}]...)
	ic.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

// Touch fires the touch bindings for event.
func (ic *InputComponent) Touch(event character.InputEvent, finger int, location character.Vector3, viewport gamepad.Vector) {
	ic.mu.Lock()
	fns := append([]character.TouchFunc{}, ic.touches[event]...)
	ic.mu.Unlock()

	for _, fn := range fns {
		fn(finger, location, viewport)
	}
}

// Tick fires every axis binding once with its current value.
func (ic *InputComponent) Tick() {
	ic.mu.Lock()
	axes := append([]axisBinding{}, ic.axes...)
	values := make([]float64, len(axes))
	for i, a := range axes {
		values[i] = ic.axisValues[a.name]
	}
	ic.mu.Unlock()

	for i, a := range axes {
		a.fn(values[i])
	}
}
