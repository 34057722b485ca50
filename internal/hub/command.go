package hub

import (
	"errors"
	"fmt"

	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/gamepad"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownPhase   = errors.New("unknown touch phase")
	ErrUnknownMode    = errors.New("unknown haptics mode")
	ErrUnboundAction  = errors.New("action not bound")
)

// InputTarget receives browser input as if it came from the host engine.
type InputTarget interface {
	Touch(event character.InputEvent, finger int, location character.Vector3, viewport gamepad.Vector)
	SetAxis(name string, value float64)
	Action(name string, pressed bool) bool
}

// DeviceTarget exposes the normalizer operations clients may trigger.
type DeviceTarget interface {
	ToggleHardwareController(useHardware bool)
	PlayHaptics() error
	UpdateHaptics(intensity, sharpness float64) error
	Snapshot() gamepad.State
}

// CommandHandler executes client commands. The returned message, if any, is
// sent back to the issuing client only.
type CommandHandler interface {
	Handle(msg *ClientMessage) (*WSMessage, error)
}

// Controls routes commands to the host input component and the normalizer.
type Controls struct {
	Input  InputTarget
	Device DeviceTarget
}

func (c *Controls) Handle(msg *ClientMessage) (*WSMessage, error) {
	switch msg.Type {
	case CmdTouch:
		event, err := touchEvent(msg.Phase)
		if err != nil {
			return nil, err
		}
		c.Input.Touch(event, msg.Finger,
			character.Vector3{X: msg.X, Y: msg.Y},
			gamepad.Vector{X: msg.Width, Y: msg.Height})
		return nil, nil

	case CmdAxis:
		c.Input.SetAxis(msg.Name, msg.Value)
		return nil, nil

	case CmdAction:
		if !c.Input.Action(msg.Name, msg.Pressed) {
			return nil, fmt.Errorf("%w: %q", ErrUnboundAction, msg.Name)
		}
		return nil, nil

	case CmdHaptics:
		switch msg.Mode {
		case "", "play":
			return nil, c.Device.PlayHaptics()
		case "update":
			return nil, c.Device.UpdateHaptics(msg.Intensity, msg.Sharpness)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownMode, msg.Mode)
		}

	case CmdToggleHardware:
		c.Device.ToggleHardwareController(msg.Enabled)
		state := c.Device.Snapshot()
		return NewEventMessage(EventHardwareToggled, &state), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Type)
}

func touchEvent(phase string) (character.InputEvent, error) {
	switch phase {
	case PhaseBegan:
		return character.Pressed, nil
	case PhaseMoved:
		return character.Moved, nil
	case PhaseEnded:
		return character.Released, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
}
