// Package character turns normalized gamepad input into movement and camera
// rotation for a third-person character, falling back to the host's default
// input bindings when no hardware controller is in use.
package character

import (
	"math"

	"github.com/soar/padbridge/internal/gamepad"
	"go.uber.org/zap"
)

const (
	DefaultBaseTurnRate    = 45.0
	DefaultBaseLookUpRate  = 45.0
	DefaultCameraMoveScale = 2.5
)

// Vector3 is a world-space direction.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MovementSink applies movement and jump requests to the host character.
type MovementSink interface {
	AddMovementInput(direction Vector3, scale float64)
	Jump()
	StopJumping()
}

// CameraSink reads and writes the host's control rotation.
type CameraSink interface {
	ControlRotation() gamepad.Rotator
	SetControlRotation(r gamepad.Rotator)
	AddControllerYawInput(value float64)
	AddControllerPitchInput(value float64)
}

// FrameClock reports the duration of the current frame.
type FrameClock interface {
	DeltaSeconds() float64
}

// Input is the part of the gamepad normalizer the character consumes.
type Input interface {
	InitializeHardwareController(orientation gamepad.Rotator) bool
	IsInitialized() bool
	SetButtonAction(button gamepad.Button, action gamepad.ButtonAction)
	Thumbstick(left bool) gamepad.Vector
	AddYawInput(value float64)
	AddPitchInput(value float64)
	Orientation() gamepad.Rotator
	SetTouchstick(t gamepad.Touch, viewport gamepad.Vector)
}

// Character is the gameplay side of the input bridge.
type Character struct {
	BaseTurnRate    float64
	BaseLookUpRate  float64
	CameraMoveScale float64

	input    Input
	movement MovementSink
	camera   CameraSink
	clock    FrameClock
	log      *zap.Logger
}

// New creates a Character. input may be nil, in which case the default
// host bindings are always used.
func New(input Input, movement MovementSink, camera CameraSink, clock FrameClock, log *zap.Logger) *Character {
	if log == nil {
		log = zap.NewNop()
	}
	return &Character{
		BaseTurnRate:    DefaultBaseTurnRate,
		BaseLookUpRate:  DefaultBaseLookUpRate,
		CameraMoveScale: DefaultCameraMoveScale,
		input:           input,
		movement:        movement,
		camera:          camera,
		clock:           clock,
		log:             log,
	}
}

func (c *Character) usingHardware() bool {
	return c.input != nil && c.input.IsInitialized()
}

// TurnAtRate handles the "TurnRate" axis.
func (c *Character) TurnAtRate(rate float64) {
	dt := c.clock.DeltaSeconds()
	if c.usingHardware() {
		stick := c.input.Thumbstick(false)
		c.input.AddYawInput(stick.X * c.BaseTurnRate * dt * c.CameraMoveScale)
		c.camera.SetControlRotation(c.input.Orientation())
		return
	}
	c.camera.AddControllerYawInput(rate * c.BaseTurnRate * dt)
}

// LookUpAtRate handles the "LookUpRate" axis.
func (c *Character) LookUpAtRate(rate float64) {
	dt := c.clock.DeltaSeconds()
	if c.usingHardware() {
		stick := c.input.Thumbstick(false)
		c.input.AddPitchInput(-stick.Y * c.BaseLookUpRate * dt * c.CameraMoveScale)
		c.camera.SetControlRotation(c.input.Orientation())
		return
	}
	c.camera.AddControllerPitchInput(rate * c.BaseLookUpRate * dt)
}

// MoveForward handles the "MoveForward" axis.
func (c *Character) MoveForward(value float64) {
	if c.usingHardware() {
		dir := forwardVector(c.input.Orientation().Yaw)
		c.movement.AddMovementInput(dir, c.input.Thumbstick(true).Y)
		return
	}
	if value != 0 {
		c.movement.AddMovementInput(forwardVector(c.camera.ControlRotation().Yaw), value)
	}
}

// MoveRight handles the "MoveRight" axis.
func (c *Character) MoveRight(value float64) {
	if c.usingHardware() {
		dir := rightVector(c.input.Orientation().Yaw)
		c.movement.AddMovementInput(dir, c.input.Thumbstick(true).X)
		return
	}
	if value != 0 {
		c.movement.AddMovementInput(rightVector(c.camera.ControlRotation().Yaw), value)
	}
}

// HandleButton is registered with the normalizer for hardware buttons.
func (c *Character) HandleButton(button gamepad.Button, pressed bool) {
	switch button {
	case gamepad.ButtonA:
		if pressed {
			c.movement.Jump()
		} else {
			c.movement.StopJumping()
		}
	}
}

// TouchStarted jumps and feeds the touch into the virtual sticks.
func (c *Character) TouchStarted(finger int, location Vector3, viewport gamepad.Vector) {
	c.movement.Jump()
	c.forwardTouch(location, true, viewport)
}

// TouchStopped stops jumping and releases the virtual stick under the touch.
func (c *Character) TouchStopped(finger int, location Vector3, viewport gamepad.Vector) {
	c.movement.StopJumping()
	c.forwardTouch(location, false, viewport)
}

// TouchMoved updates the virtual stick under the touch.
func (c *Character) TouchMoved(finger int, location Vector3, viewport gamepad.Vector) {
	c.forwardTouch(location, true, viewport)
}

func (c *Character) forwardTouch(location Vector3, pressed bool, viewport gamepad.Vector) {
	if c.input == nil {
		return
	}
	c.input.SetTouchstick(gamepad.Touch{X: location.X, Y: location.Y, Pressed: pressed}, viewport)
}

// OnResetVR is bound for completeness; VR is not supported.
func (c *Character) OnResetVR() {
	c.log.Debug("ResetVR ignored, VR support disabled")
}

func doNothing() {}

// forwardVector is the X axis of a rotation by yaw degrees about Z.
func forwardVector(yaw float64) Vector3 {
	s, co := math.Sincos(yaw * math.Pi / 180)
	return Vector3{X: co, Y: s}
}

// rightVector is the Y axis of a rotation by yaw degrees about Z.
func rightVector(yaw float64) Vector3 {
	s, co := math.Sincos(yaw * math.Pi / 180)
	return Vector3{X: -s, Y: co}
}
