package joystick

import (
	"sync"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/soar/padbridge/internal/gamepad"
)

// device is one opened SDL joystick.
type device struct {
	js         *sdl.Joystick
	id         sdl.JoystickID
	name       string
	mapping    *gamepad.DeviceMapping
	numAxes    int32
	numButtons int32

	mu      sync.Mutex
	handler gamepad.EventHandler
	prev    gamepad.Sample
}

func (d *device) Name() string { return d.name }

func (d *device) Extended() bool {
	return d.mapping.Extended() && d.numAxes >= 4
}

func (d *device) SetEventHandler(h gamepad.EventHandler) {
	d.mu.Lock()
	d.handler = h
	d.mu.Unlock()
}

func (d *device) Axis(index int32) int16 { return sdl.GetJoystickAxis(d.js, index) }
func (d *device) Button(index int32) bool { return sdl.GetJoystickButton(d.js, index) }
func (d *device) NumAxes() int32 { return d.numAxes }
func (d *device) NumButtons() int32 { return d.numButtons }

// disconnect detaches the handler after telling it the device is gone.
func (d *device) disconnect() {
	d.mu.Lock()
	h := d.handler
	d.handler = nil
	d.prev = gamepad.Sample{}
	d.mu.Unlock()

	if h != nil {
		h(gamepad.DisconnectEvent{})
	}
}

// poll reads the device and delivers one event per changed element.
func (d *device) poll(deadzone float64) {
	cur := d.mapping.Read(d, deadzone)

	d.mu.Lock()
	events := gamepad.DiffSamples(d.prev, cur)
	d.prev = cur
	h := d.handler
	d.mu.Unlock()

	if h == nil {
		return
	}
	for _, ev := range events {
		h(ev)
	}
}
