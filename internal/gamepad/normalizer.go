package gamepad

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Normalizer turns the events of one hardware controller, plus touches on the
// screen, into stable button, stick and orientation values for gameplay code.
//
// All state is guarded by one lock: hardware events, frame updates and touch
// input may each arrive on their own goroutine. Registered button actions run
// without the lock held and may call back into the Normalizer.
type Normalizer struct {
	source Source
	log    *zap.Logger
	radius float64

	mu          sync.RWMutex
	controller  Controller
	initialized bool
	buttons     [ButtonCount]float64
	actions     [ButtonCount]ButtonAction
	thumbsticks [StickCount]Vector
	touchsticks [StickCount]touchstick
	orientation Rotator

	// emitMu orders snapshots on changes so the newest one is always last.
	emitMu  sync.Mutex
	changes chan State

	hapticsMu sync.Mutex
	engine    HapticEngine
	player    HapticPlayer
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTouchRadius sets the touchstick saturation radius in pixels.
func WithTouchRadius(r float64) Option {
	return func(n *Normalizer) {
		if r > 0 {
			n.radius = r
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// NewNormalizer returns a normalizer reading controllers from source, which
// may be nil when only touch input is used.
func NewNormalizer(source Source, opts ...Option) *Normalizer {
	n := &Normalizer{
		source:  source,
		log:     zap.NewNop(),
		radius:  DefaultTouchRadius,
		changes: make(chan State, 64),
	}
	for _, opt := range opts {
		opt(n)
	}
	for i := range n.touchsticks {
		n.touchsticks[i] = newTouchstick(n.radius)
	}
	return n
}

// Changes returns the channel on which a snapshot is sent after each change.
// While the channel is full the oldest pending snapshot is discarded, so the
// last value received is always the current state.
func (n *Normalizer) Changes() <-chan State {
	return n.changes
}

// InitializeHardwareController resets all input state, seeds the orientation
// and binds the first connected controller. It returns false, leaving the
// normalizer uninitialized, when no controller is connected. Controllers
// connected later are not picked up.
func (n *Normalizer) InitializeHardwareController(orientation Rotator) bool {
	n.mu.Lock()
	n.buttons = [ButtonCount]float64{}
	n.actions = [ButtonCount]ButtonAction{}
	n.thumbsticks = [StickCount]Vector{}
	for i := range n.touchsticks {
		n.touchsticks[i] = newTouchstick(n.radius)
	}
	n.orientation = orientation
	n.mu.Unlock()

	if n.source == nil || len(n.source.Controllers()) == 0 {
		n.log.Info("No hardware controller connected, using default input bindings")
		n.emit()
		return false
	}

	n.ToggleHardwareController(true)

	n.mu.Lock()
	n.initialized = true
	n.mu.Unlock()

	n.emit()
	return true
}

func (n *Normalizer) IsInitialized() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.initialized
}

// ToggleHardwareController binds to the first enumerated controller when
// useHardware is true, and detaches from the bound controller otherwise.
// Unbinding a controller zeroes buttons and thumbsticks and fires the
// release action of every button still held.
func (n *Normalizer) ToggleHardwareController(useHardware bool) {
	n.mu.Lock()
	prev := n.controller
	n.controller = nil
	n.mu.Unlock()

	if prev != nil {
		prev.SetEventHandler(nil)
		n.releaseAll()
	}

	if !useHardware {
		if prev != nil {
			n.log.Info("Hardware controller detached", zap.String("name", prev.Name()))
		}
		n.emit()
		return
	}

	if n.source == nil {
		return
	}
	controllers := n.source.Controllers()
	if len(controllers) == 0 {
		n.log.Warn("No hardware controller to bind")
		n.emit()
		return
	}

	c := controllers[0]
	n.mu.Lock()
	n.controller = c
	n.mu.Unlock()

	if c.Extended() {
		c.SetEventHandler(n.Dispatch)
		n.log.Info("Hardware controller bound", zap.String("name", c.Name()))
	} else {
		n.log.Warn("Controller has no extended layout, events ignored", zap.String("name", c.Name()))
	}
	n.emit()
}

// Dispatch applies a hardware event. A button event stores the reported
// value while pressed, zero otherwise, then invokes the registered action.
func (n *Normalizer) Dispatch(ev Event) {
	switch e := ev.(type) {
	case ButtonEvent:
		if !e.Button.Valid() {
			return
		}
		n.mu.Lock()
		if e.Pressed {
			n.buttons[e.Button] = e.Value
		} else {
			n.buttons[e.Button] = 0
		}
		action := n.actions[e.Button]
		n.mu.Unlock()

		n.emit()
		if action != nil {
			action(e.Button, e.Pressed)
		}

	case StickEvent:
		if e.Stick < 0 || e.Stick >= StickCount {
			return
		}
		n.mu.Lock()
		n.thumbsticks[e.Stick] = Vector{X: e.X, Y: e.Y}
		n.mu.Unlock()
		n.emit()

	case DisconnectEvent:
		n.log.Info("Hardware controller unplugged")
		n.ToggleHardwareController(false)
	}
}

// releaseAll zeroes buttons and thumbsticks, then runs the release action of
// each button that was held.
func (n *Normalizer) releaseAll() {
	var held []Button
	var actions []ButtonAction
	n.mu.Lock()
	for b := Button(0); b < ButtonCount; b++ {
		if n.buttons[b] > 0 && n.actions[b] != nil {
			held = append(held, b)
			actions = append(actions, n.actions[b])
		}
	}
	n.buttons = [ButtonCount]float64{}
	n.thumbsticks = [StickCount]Vector{}
	n.mu.Unlock()

	for i, action := range actions {
		action(held[i], false)
	}
}

// SetButtonAction registers action for button, replacing any previous one.
// A nil action clears the registration.
func (n *Normalizer) SetButtonAction(button Button, action ButtonAction) {
	if !button.Valid() {
		return
	}
	n.mu.Lock()
	n.actions[button] = action
	n.mu.Unlock()
}

// Button returns the current intensity of button in [0,1].
func (n *Normalizer) Button(button Button) float64 {
	if !button.Valid() {
		return 0
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.buttons[button]
}

func (n *Normalizer) Orientation() Rotator {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.orientation
}

// AddYawInput adds value degrees of yaw. No wrapping is applied.
func (n *Normalizer) AddYawInput(value float64) {
	n.mu.Lock()
	n.orientation.Yaw += value
	n.mu.Unlock()
	n.emit()
}

// AddPitchInput subtracts value degrees of pitch (inverted look).
func (n *Normalizer) AddPitchInput(value float64) {
	n.mu.Lock()
	n.orientation.Pitch += value * -1
	n.mu.Unlock()
	n.emit()
}

func (n *Normalizer) AddRollInput(value float64) {
	n.mu.Lock()
	n.orientation.Roll += value
	n.mu.Unlock()
	n.emit()
}

// Thumbstick returns the (x, y) position of the left or right thumbstick.
func (n *Normalizer) Thumbstick(left bool) Vector {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.thumbsticks[stickIndex(left)]
}

// SetTouchstick feeds a touch into the virtual sticks. Only the lower half of
// the viewport drives them; the upper half is left for look gestures. The
// left and right halves select the left and right stick. Each touch is routed
// by its own position, so a finger that slides out of a stick's region leaves
// that stick where it was until a release lands back inside it.
func (n *Normalizer) SetTouchstick(t Touch, viewport Vector) {
	if viewport.X <= 0 || viewport.Y <= 0 {
		return
	}
	if t.Y <= viewport.Y*0.5 {
		return
	}

	idx := stickIndex(t.X < viewport.X*0.5)
	n.mu.Lock()
	n.touchsticks[idx].update(t.X, t.Y, t.Pressed)
	n.mu.Unlock()
	n.emit()
}

// Touchstick returns the direction of the left or right touchstick scaled by
// its displacement relative to the radius, saturating at unit length.
func (n *Normalizer) Touchstick(left bool) Vector {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.touchsticks[stickIndex(left)].value()
}

// Snapshot returns a copy of the current state.
func (n *Normalizer) Snapshot() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.snapshotLocked()
}

func (n *Normalizer) snapshotLocked() State {
	s := State{
		Connected:   n.controller != nil,
		Initialized: n.initialized,
		Buttons:     buttonValues(&n.buttons),
		Sticks: SticksState{
			Left:  n.thumbsticks[LeftStick],
			Right: n.thumbsticks[RightStick],
		},
		Touchsticks: SticksState{
			Left:  n.touchsticks[LeftStick].value(),
			Right: n.touchsticks[RightStick].value(),
		},
		Orientation: n.orientation,
	}
	if n.controller != nil {
		s.Name = n.controller.Name()
	}
	return s
}

func (n *Normalizer) emit() {
	n.emitMu.Lock()
	defer n.emitMu.Unlock()

	s := n.Snapshot()
	for {
		select {
		case n.changes <- s:
			return
		default:
		}
		// Full: drop the oldest pending snapshot.
		select {
		case <-n.changes:
		default:
		}
	}
}

// InitializeHaptics starts engine and prepares a player for the continuous
// pattern. Haptics stay off unless this is called.
func (n *Normalizer) InitializeHaptics(engine HapticEngine) error {
	if engine == nil {
		return errors.New("initialize haptics: no engine")
	}
	if err := engine.Start(); err != nil {
		return fmt.Errorf("start haptic engine: %w", err)
	}

	player, err := engine.NewPlayer(ContinuousPattern())
	if err != nil {
		_ = engine.Stop()
		return fmt.Errorf("create haptic player: %w", err)
	}
	player.SetCompletionHandler(func(err error) {
		if err != nil {
			n.log.Warn("Haptic playback failed", zap.Error(err))
			return
		}
		n.log.Debug("Haptic playback complete")
	})

	n.hapticsMu.Lock()
	n.engine = engine
	n.player = player
	n.hapticsMu.Unlock()

	n.log.Info("Haptics initialized")
	return nil
}

// PlayHaptics starts the prepared pattern.
func (n *Normalizer) PlayHaptics() error {
	n.hapticsMu.Lock()
	defer n.hapticsMu.Unlock()
	if n.player == nil {
		return ErrHapticsNotInitialized
	}
	if err := n.player.Start(); err != nil {
		return fmt.Errorf("play haptics: %w", err)
	}
	return nil
}

// UpdateHaptics changes the intensity and sharpness of the playing pattern.
// Both values are clamped to [0,1].
func (n *Normalizer) UpdateHaptics(intensity, sharpness float64) error {
	n.hapticsMu.Lock()
	defer n.hapticsMu.Unlock()
	if n.player == nil {
		return ErrHapticsNotInitialized
	}
	if err := n.player.SendParameters(clamp01(intensity), clamp01(sharpness)); err != nil {
		return fmt.Errorf("update haptics: %w", err)
	}
	return nil
}

// CloseHaptics stops playback and the engine.
func (n *Normalizer) CloseHaptics() error {
	n.hapticsMu.Lock()
	defer n.hapticsMu.Unlock()
	if n.player == nil {
		return nil
	}
	err := errors.Join(n.player.Stop(), n.engine.Stop())
	n.player = nil
	n.engine = nil
	return err
}
