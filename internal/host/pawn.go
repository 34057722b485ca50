package host

import (
	"math"
	"sync"

	"github.com/soar/padbridge/internal/character"
	"github.com/soar/padbridge/internal/gamepad"
)

// DefaultWalkSpeed is in world units per second.
const DefaultWalkSpeed = 600.0

// Pose is a snapshot of the pawn.
type Pose struct {
	Position character.Vector3 `json:"position"`
	Rotation gamepad.Rotator   `json:"rotation"`
	Jumping  bool              `json:"jumping"`
}

// Pawn accumulates movement input per frame and moves at a fixed speed in
// the input direction. There is no collision or gravity.
type Pawn struct {
	mu       sync.Mutex
	speed    float64
	rotation gamepad.Rotator
	pending  character.Vector3
	position character.Vector3
	jumping  bool
}

func NewPawn(speed float64) *Pawn {
	if speed <= 0 {
		speed = DefaultWalkSpeed
	}
	return &Pawn{speed: speed}
}

func (p *Pawn) AddMovementInput(direction character.Vector3, scale float64) {
	if scale == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending.X += direction.X * scale
	p.pending.Y += direction.Y * scale
	p.pending.Z += direction.Z * scale
}

func (p *Pawn) Jump() {
	p.mu.Lock()
	p.jumping = true
	p.mu.Unlock()
}

func (p *Pawn) StopJumping() {
	p.mu.Lock()
	p.jumping = false
	p.mu.Unlock()
}

func (p *Pawn) ControlRotation() gamepad.Rotator {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotation
}

func (p *Pawn) SetControlRotation(r gamepad.Rotator) {
	p.mu.Lock()
	p.rotation = r
	p.mu.Unlock()
}

func (p *Pawn) AddControllerYawInput(value float64) {
	p.mu.Lock()
	p.rotation.Yaw += value
	p.mu.Unlock()
}

func (p *Pawn) AddControllerPitchInput(value float64) {
	p.mu.Lock()
	p.rotation.Pitch += value
	p.mu.Unlock()
}

// PendingInput returns the movement input accumulated since the last Advance.
func (p *Pawn) PendingInput() character.Vector3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Advance consumes the pending input, clamped to unit length, and moves the
// pawn for dt seconds.
func (p *Pawn) Advance(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	in := p.pending
	p.pending = character.Vector3{}

	l := math.Sqrt(in.X*in.X + in.Y*in.Y + in.Z*in.Z)
	if l == 0 {
		return
	}
	if l > 1 {
		in.X, in.Y, in.Z = in.X/l, in.Y/l, in.Z/l
	}
	d := p.speed * dt
	p.position.X += in.X * d
	p.position.Y += in.Y * d
	p.position.Z += in.Z * d
}

func (p *Pawn) Pose() Pose {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Pose{Position: p.position, Rotation: p.rotation, Jumping: p.jumping}
}
