package host

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/gamepad"
)

type pad struct {
	handler gamepad.EventHandler
}

func (p *pad) Name() string { return "test pad" }
func (p *pad) Extended() bool { return true }
func (p *pad) SetEventHandler(h gamepad.EventHandler) { p.handler = h }

type source []gamepad.Controller

func (s source) Controllers() []gamepad.Controller { return s }

type world struct {
	input *InputComponent
	pawn  *Pawn
	clock *Clock
	loop  *Loop
	norm  *gamepad.Normalizer
	char  *character.Character
}

func newWorld(src gamepad.Source) *world {
	w := &world{
		input: NewInputComponent(),
		pawn:  NewPawn(100),
		clock: &Clock{},
	}
	w.loop = NewLoop(w.input, w.pawn, w.clock, 0, nil)
	w.norm = gamepad.NewNormalizer(src)
	w.char = character.New(w.norm, w.pawn, w.pawn, w.clock, nil)
	w.char.SetupPlayerInput(w.input)
	return w
}

func TestFallbackMovement(t *testing.T) {
	w := newWorld(nil)

	w.input.SetAxis(character.AxisMoveForward, 1)
	w.loop.Step(0.5)

	pos := w.pawn.Pose().Position
	if math.Abs(pos.X-50) > 1e-9 || math.Abs(pos.Y) > 1e-9 {
		t.Errorf("position = %+v, want (50, 0)", pos)
	}
	if w.clock.DeltaSeconds() != 0.5 {
		t.Errorf("clock = %v", w.clock.DeltaSeconds())
	}
	if w.loop.Frames() != 1 {
		t.Errorf("frames = %d", w.loop.Frames())
	}
}

func TestFallbackInputClampedToUnit(t *testing.T) {
	w := newWorld(nil)
	w.input.SetAxis(character.AxisMoveForward, 1)
	w.input.SetAxis(character.AxisMoveRight, 1)
	w.loop.Step(1)

	pos := w.pawn.Pose().Position
	if d := math.Hypot(pos.X, pos.Y); math.Abs(d-100) > 1e-9 {
		t.Errorf("distance = %v, want 100", d)
	}
	if in := w.pawn.PendingInput(); in != (character.Vector3{}) {
		t.Errorf("pending input not consumed: %+v", in)
	}
}

func TestFallbackJumpAction(t *testing.T) {
	w := newWorld(nil)

	if !w.input.Action(character.ActionJump, true) {
		t.Fatal("Jump not bound")
	}
	if !w.pawn.Pose().Jumping {
		t.Error("pawn should be jumping")
	}
	w.input.Action(character.ActionJump, false)
	if w.pawn.Pose().Jumping {
		t.Error("pawn should have stopped jumping")
	}
	if w.input.Action("Crouch", true) {
		t.Error("unbound action reported as handled")
	}
}

func TestHardwareDrivesPawn(t *testing.T) {
	p := &pad{}
	w := newWorld(source{p})
	if !w.norm.IsInitialized() {
		t.Fatal("normalizer not initialized")
	}

	p.handler(gamepad.StickEvent{Stick: gamepad.RightStick, X: 1})
	p.handler(gamepad.StickEvent{Stick: gamepad.LeftStick, Y: 1})

	// Axis values are ignored on the hardware path; the stick is read instead.
	w.loop.Step(0.1)

	// 1 * 45 * 0.1 * 2.5
	wantYaw := 11.25
	if got := w.pawn.ControlRotation().Yaw; math.Abs(got-wantYaw) > 1e-9 {
		t.Errorf("yaw = %v, want %v", got, wantYaw)
	}
	pos := w.pawn.Pose().Position
	if pos.X <= 0 {
		t.Errorf("pawn did not move forward: %+v", pos)
	}

	p.handler(gamepad.ButtonEvent{Button: gamepad.ButtonA, Value: 1, Pressed: true})
	if !w.pawn.Pose().Jumping {
		t.Error("button A should jump")
	}
	w.input.Action(character.ActionJump, false)
	if !w.pawn.Pose().Jumping {
		t.Error("Jump action must not stop a hardware jump")
	}
}

func TestDetachReleasesHardwareInput(t *testing.T) {
	tests := []struct {
		name   string
		detach func(w *world, p *pad)
	}{
		{"toggled off", func(w *world, _ *pad) { w.norm.ToggleHardwareController(false) }},
		{"unplugged", func(_ *world, p *pad) { p.handler(gamepad.DisconnectEvent{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pad{}
			w := newWorld(source{p})

			p.handler(gamepad.StickEvent{Stick: gamepad.LeftStick, Y: 1})
			p.handler(gamepad.ButtonEvent{Button: gamepad.ButtonA, Value: 1, Pressed: true})
			w.loop.Step(0.1)
			before := w.pawn.Pose()
			if before.Position.X <= 0 || !before.Jumping {
				t.Fatalf("pawn not driven before detach: %+v", before)
			}

			tt.detach(w, p)
			for i := 0; i < 10; i++ {
				w.loop.Step(0.1)
			}

			after := w.pawn.Pose()
			if after.Position != before.Position {
				t.Errorf("pawn kept moving: %+v -> %+v", before.Position, after.Position)
			}
			if after.Jumping {
				t.Error("pawn still jumping after detach")
			}
			if got := w.norm.Thumbstick(true); got != (gamepad.Vector{}) {
				t.Errorf("left thumbstick = %+v", got)
			}
			if got := w.norm.Button(gamepad.ButtonA); got != 0 {
				t.Errorf("button A = %v", got)
			}
			if w.norm.Snapshot().Connected {
				t.Error("still connected after detach")
			}
			if p.handler != nil {
				t.Error("handler still installed")
			}
		})
	}
}

func TestTouchBindings(t *testing.T) {
	w := newWorld(nil)
	vp := gamepad.Vector{X: 1000, Y: 800}

	w.input.Touch(character.Pressed, 0, character.Vector3{X: 800, Y: 600}, vp)
	w.input.Touch(character.Moved, 0, character.Vector3{X: 800, Y: 500}, vp)

	if got := w.norm.Touchstick(false); math.Abs(got.Y+1) > 1e-9 {
		t.Errorf("right touchstick = %+v, want (0, -1)", got)
	}
	if !w.pawn.Pose().Jumping {
		t.Error("touch should jump")
	}
	w.input.Touch(character.Released, 0, character.Vector3{X: 800, Y: 500}, vp)
	if w.pawn.Pose().Jumping {
		t.Error("release should stop jumping")
	}
}

func TestLoopRunStops(t *testing.T) {
	w := newWorld(nil)
	loop := NewLoop(w.input, w.pawn, w.clock, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for loop.Frames() < 3 {
		select {
		case <-deadline:
			t.Fatal("loop did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
