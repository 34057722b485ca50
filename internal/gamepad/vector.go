package gamepad

import "math"

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Size returns the length of v.
func (v Vector) Size() float64 {
	return math.Hypot(v.X, v.Y)
}

// SafeNormal returns v scaled to unit length. A vector whose squared length
// is below tolerance yields the zero vector.
func (v Vector) SafeNormal(tolerance float64) Vector {
	sq := v.X*v.X + v.Y*v.Y
	if sq == 1 {
		return v
	}
	if sq < tolerance {
		return Vector{}
	}
	return v.Scale(1 / math.Sqrt(sq))
}

// Rotator is an orientation in degrees.
type Rotator struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}
