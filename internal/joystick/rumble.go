package joystick

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/soar/padbridge/internal/gamepad"
	"go.uber.org/zap"
)

var (
	ErrNoJoystick  = errors.New("no joystick connected")
	ErrQueueFull   = errors.New("joystick command queue full")
	ErrEmptyRumble = errors.New("haptic pattern has no events")
)

// Rumbler plays haptic patterns as joystick rumble on the first connected
// joystick. Intensity drives the low frequency motor, intensity times
// sharpness the high frequency one.
type Rumbler struct {
	reader *Reader
	log    *zap.Logger
}

func NewRumbler(r *Reader, log *zap.Logger) *Rumbler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rumbler{reader: r, log: log}
}

func (r *Rumbler) Start() error {
	if r.reader.first() == nil {
		return ErrNoJoystick
	}
	return nil
}

func (r *Rumbler) Stop() error {
	return r.rumble(0, 0, 0)
}

func (r *Rumbler) NewPlayer(p gamepad.HapticPattern) (gamepad.HapticPlayer, error) {
	if len(p.Events) == 0 {
		return nil, ErrEmptyRumble
	}
	ev := p.Events[0]
	return &rumblePlayer{
		engine:    r,
		intensity: ev.Intensity,
		sharpness: ev.Sharpness,
		length:    p.Length(),
	}, nil
}

func (r *Rumbler) rumble(intensity, sharpness float64, d time.Duration) error {
	dev := r.reader.first()
	if dev == nil {
		return ErrNoJoystick
	}
	low := uint16(math.Round(intensity * math.MaxUint16))
	high := uint16(math.Round(intensity * sharpness * math.MaxUint16))
	ms := uint32(d / time.Millisecond)

	ok := r.reader.do(func() {
		if !sdl.RumbleJoystick(dev.js, low, high, ms) {
			r.log.Debug("Rumble not supported", zap.String("name", dev.name), zap.String("error", sdl.GetError()))
		}
	})
	if !ok {
		return ErrQueueFull
	}
	return nil
}

type rumblePlayer struct {
	engine *Rumbler
	length time.Duration

	mu         sync.Mutex
	intensity  float64
	sharpness  float64
	started    time.Time
	timer      *time.Timer
	onComplete func(error)
}

func (p *rumblePlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.engine.rumble(p.intensity, p.sharpness, p.length); err != nil {
		return err
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.started = time.Now()
	p.timer = time.AfterFunc(p.length, p.complete)
	return nil
}

func (p *rumblePlayer) complete() {
	p.mu.Lock()
	fn := p.onComplete
	p.timer = nil
	p.mu.Unlock()
	if fn != nil {
		fn(nil)
	}
}

func (p *rumblePlayer) Stop() error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	return p.engine.rumble(0, 0, 0)
}

// SendParameters restarts the rumble with the new values for the remaining
// part of the pattern.
func (p *rumblePlayer) SendParameters(intensity, sharpness float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intensity = intensity
	p.sharpness = sharpness
	if p.timer == nil {
		return nil
	}
	remaining := p.length - time.Since(p.started)
	if remaining <= 0 {
		return nil
	}
	return p.engine.rumble(intensity, sharpness, remaining)
}

func (p *rumblePlayer) SetCompletionHandler(fn func(error)) {
	p.mu.Lock()
	p.onComplete = fn
	p.mu.Unlock()
}
