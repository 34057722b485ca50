package hub

import (
	"time"

	"github.com/soar/padbridge/internal/gamepad"
)

// Server to client message types.
const (
	TypeFull  = "full"
	TypeDelta = "delta"
	TypeEvent = "event"
)

// Event names sent with TypeEvent.
const (
	EventWelcome         = "welcome"
	EventHardwareToggled = "hardware_toggled"
	EventError           = "error"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string                `json:"type"`
	Seq       int64                 `json:"seq"`
	Timestamp int64                 `json:"timestamp"` // Unix milliseconds
	Event     string                `json:"event,omitempty"`
	ClientID  string                `json:"clientId,omitempty"`
	Error     string                `json:"error,omitempty"`
	Data      *gamepad.State        `json:"data,omitempty"`
	Changes   *gamepad.DeltaChanges `json:"changes,omitempty"`
}

func NewFullMessage(seq int64, state *gamepad.State) *WSMessage {
	return &WSMessage{
		Type:      TypeFull,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      state,
	}
}

func NewDeltaMessage(seq int64, changes *gamepad.DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:      TypeDelta,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// NewEventMessage creates an "event" message. state may be nil.
func NewEventMessage(event string, state *gamepad.State) *WSMessage {
	return &WSMessage{
		Type:      TypeEvent,
		Timestamp: time.Now().UnixMilli(),
		Event:     event,
		Data:      state,
	}
}

func NewErrorMessage(err error) *WSMessage {
	msg := NewEventMessage(EventError, nil)
	msg.Error = err.Error()
	return msg
}

// Client to server commands.
const (
	CmdTouch          = "touch"
	CmdAxis           = "axis"
	CmdAction         = "action"
	CmdHaptics        = "haptics"
	CmdToggleHardware = "toggle_hardware"
)

// Touch phases.
const (
	PhaseBegan = "began"
	PhaseMoved = "moved"
	PhaseEnded = "ended"
)

// ClientMessage represents a command sent from the browser. Fields not used
// by a command are ignored.
type ClientMessage struct {
	Type string `json:"type"`

	// touch
	Phase  string  `json:"phase,omitempty"`
	Finger int     `json:"finger,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// axis and action
	Name    string  `json:"name,omitempty"`
	Value   float64 `json:"value,omitempty"`
	Pressed bool    `json:"pressed,omitempty"`

	// haptics: "play" or "update"
	Mode      string  `json:"mode,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`
	Sharpness float64 `json:"sharpness,omitempty"`

	// toggle_hardware
	Enabled bool `json:"enabled,omitempty"`
}
