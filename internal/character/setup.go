package character

import (
	"github.com/soar/padbridge/internal/gamepad"
	"go.uber.org/zap"
)

// InputEvent selects when an action or touch binding fires.
type InputEvent int

const (
	Pressed InputEvent = iota
	Released
	Moved
)

// TouchFunc handles a touch at location inside a viewport of the given size.
type TouchFunc func(finger int, location Vector3, viewport gamepad.Vector)

// Binder is the host's input component.
type Binder interface {
	BindAction(name string, event InputEvent, fn func())
	BindAxis(name string, fn func(value float64))
	BindTouch(event InputEvent, fn TouchFunc)
}

// Axis and action names bound by SetupPlayerInput.
const (
	ActionJump    = "Jump"
	ActionResetVR = "ResetVR"

	AxisMoveForward = "MoveForward"
	AxisMoveRight   = "MoveRight"
	AxisTurn        = "Turn"
	AxisTurnRate    = "TurnRate"
	AxisLookUp      = "LookUp"
	AxisLookUpRate  = "LookUpRate"
)

// SetupPlayerInput initializes the hardware controller, seeded with the
// current control rotation, and binds all gameplay input. With a hardware
// controller jumping is driven by button A; otherwise by the "Jump" action.
func (c *Character) SetupPlayerInput(b Binder) {
	if c.input != nil {
		c.input.InitializeHardwareController(c.camera.ControlRotation())
	}

	if c.usingHardware() {
		c.input.SetButtonAction(gamepad.ButtonA, c.HandleButton)
		b.BindAction(ActionJump, Pressed, doNothing)
		b.BindAction(ActionJump, Released, doNothing)
		c.log.Info("Using hardware controller input")
	} else {
		b.BindAction(ActionJump, Pressed, c.movement.Jump)
		b.BindAction(ActionJump, Released, c.movement.StopJumping)
		c.log.Info("Using default input bindings")
	}

	b.BindAxis(AxisMoveForward, c.MoveForward)
	b.BindAxis(AxisMoveRight, c.MoveRight)

	// "Turn" and "LookUp" take absolute deltas such as mouse movement;
	// the rate versions scale analog input by frame time.
	b.BindAxis(AxisTurn, c.camera.AddControllerYawInput)
	b.BindAxis(AxisTurnRate, c.TurnAtRate)
	b.BindAxis(AxisLookUp, c.camera.AddControllerPitchInput)
	b.BindAxis(AxisLookUpRate, c.LookUpAtRate)

	b.BindTouch(Pressed, c.TouchStarted)
	b.BindTouch(Released, c.TouchStopped)
	b.BindTouch(Moved, c.TouchMoved)

	b.BindAction(ActionResetVR, Pressed, c.OnResetVR)

	c.log.Debug("Player input bound", zap.Bool("hardware", c.usingHardware()))
}
