// Package joystick is the SDL3 backend for hardware controllers: it
// enumerates joysticks, polls them and delivers value-changed events to the
// gamepad normalizer.
package joystick

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/soar/padbridge/internal/gamepad"
	"go.uber.org/zap"
)

// ErrNotRunning is returned when SDL could not be initialized.
var ErrNotRunning = errors.New("joystick reader not running")

// Reader owns the SDL joystick subsystem. All SDL calls happen on the
// goroutine running Run.
type Reader struct {
	log       *zap.Logger
	deadzone  float64
	pollDelay time.Duration

	mu        sync.RWMutex
	joysticks map[sdl.JoystickID]*device
	order     []sdl.JoystickID

	commands  chan func()
	ready     chan struct{}
	readyOnce sync.Once
	initErr   error
}

// NewReader returns a reader that applies deadzone to the sticks and polls
// every pollDelay. Nothing happens until Run is called.
func NewReader(log *zap.Logger, deadzone float64, pollDelay time.Duration) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	if pollDelay <= 0 {
		pollDelay = 16 * time.Millisecond // ~60Hz
	}
	return &Reader{
		log:       log,
		deadzone:  deadzone,
		pollDelay: pollDelay,
		joysticks: make(map[sdl.JoystickID]*device),
		commands:  make(chan func(), 16),
		ready:     make(chan struct{}),
	}
}

// Ready is closed once the joysticks connected at startup are enumerated,
// or SDL failed to start.
func (r *Reader) Ready() <-chan struct{} {
	return r.ready
}

// Err returns the SDL initialization error, if any. Valid after Ready.
func (r *Reader) Err() error {
	return r.initErr
}

// Controllers returns the connected joysticks in connection order.
func (r *Reader) Controllers() []gamepad.Controller {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]gamepad.Controller, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.joysticks[id])
	}
	return out
}

// Run initializes SDL and runs the event and polling loop until ctx is done.
func (r *Reader) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		r.initErr = errors.Join(ErrNotRunning, errors.New(sdl.GetError()))
		r.log.Error("SDL init failed", zap.Error(r.initErr))
		r.markReady()
		<-ctx.Done()
		return
	}
	defer sdl.Quit()

	r.log.Info("SDL3 joystick subsystem initialized")

	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}
	r.markReady()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		default:
		}

		r.processEvents()
		r.runCommands()
		r.pollState()
		sdl.DelayNS(uint64(r.pollDelay.Nanoseconds()))
	}
}

func (r *Reader) markReady() {
	r.readyOnce.Do(func() { close(r.ready) })
}

// do queues fn to run on the SDL goroutine. It reports false when the queue
// is full.
func (r *Reader) do(fn func()) bool {
	select {
	case r.commands <- fn:
		return true
	default:
		return false
	}
}

func (r *Reader) runCommands() {
	for {
		select {
		case fn := <-r.commands:
			fn()
		default:
			return
		}
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)
		}
	}
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	r.mu.RLock()
	_, exists := r.joysticks[instanceID]
	r.mu.RUnlock()
	if exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		r.log.Warn("Failed to open joystick",
			zap.Uint32("id", uint32(instanceID)), zap.String("error", sdl.GetError()))
		return
	}

	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	dev := &device{
		js:         js,
		id:         sdl.GetJoystickID(js),
		name:       sdl.GetJoystickName(js),
		mapping:    gamepad.GetMapping(vendorID, productID),
		numAxes:    sdl.GetNumJoystickAxes(js),
		numButtons: sdl.GetNumJoystickButtons(js),
	}

	r.mu.Lock()
	r.joysticks[dev.id] = dev
	r.order = append(r.order, dev.id)
	r.mu.Unlock()

	r.log.Info("Joystick connected",
		zap.String("name", dev.name),
		zap.String("vid", fmt.Sprintf("%04X", vendorID)),
		zap.String("pid", fmt.Sprintf("%04X", productID)),
		zap.String("mapping", dev.mapping.Name),
		zap.Bool("extended", dev.Extended()),
		zap.Int32("axes", dev.numAxes),
		zap.Int32("buttons", dev.numButtons))
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	r.mu.Lock()
	dev, exists := r.joysticks[instanceID]
	if exists {
		delete(r.joysticks, instanceID)
		for i, id := range r.order {
			if id == instanceID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()
	if !exists {
		return
	}

	r.log.Info("Joystick disconnected", zap.String("name", dev.name))
	dev.disconnect()
	sdl.CloseJoystick(dev.js)
}

func (r *Reader) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, dev := range r.joysticks {
		sdl.CloseJoystick(dev.js)
		delete(r.joysticks, id)
	}
	r.order = nil
}

// first returns the joystick the normalizer binds to.
func (r *Reader) first() *device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil
	}
	return r.joysticks[r.order[0]]
}

func (r *Reader) pollState() {
	r.mu.RLock()
	devs := make([]*device, 0, len(r.order))
	for _, id := range r.order {
		devs = append(devs, r.joysticks[id])
	}
	r.mu.RUnlock()

	for _, dev := range devs {
		if !sdl.JoystickConnected(dev.js) {
			continue
		}
		dev.poll(r.deadzone)
	}
}
