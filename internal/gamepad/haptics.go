package gamepad

import (
	"errors"
	"time"
)

// ErrHapticsNotInitialized is returned by haptic calls made before
// InitializeHaptics succeeded.
var ErrHapticsNotInitialized = errors.New("haptics not initialized")

type HapticEventType int

const (
	HapticContinuous HapticEventType = iota
	HapticTransient
)

// HapticEvent is one entry of a haptic pattern. Intensity and Sharpness are
// in [0,1].
type HapticEvent struct {
	Type         HapticEventType
	Intensity    float64
	Sharpness    float64
	RelativeTime time.Duration
	Duration     time.Duration
}

// HapticPattern is an ordered set of haptic events.
type HapticPattern struct {
	Events []HapticEvent
}

// Length returns the time at which the last event of the pattern ends.
func (p HapticPattern) Length() time.Duration {
	var end time.Duration
	for _, e := range p.Events {
		if t := e.RelativeTime + e.Duration; t > end {
			end = t
		}
	}
	return end
}

// Haptic pattern constants used by InitializeHaptics.
const (
	ContinuousIntensity = 0.3
	ContinuousSharpness = 0.5
	ContinuousDuration  = 5 * time.Second
)

// ContinuousPattern returns the single continuous rumble used by the
// normalizer.
func ContinuousPattern() HapticPattern {
	return HapticPattern{Events: []HapticEvent{{
		Type:      HapticContinuous,
		Intensity: ContinuousIntensity,
		Sharpness: ContinuousSharpness,
		Duration:  ContinuousDuration,
	}}}
}

// HapticEngine is a platform haptics device.
type HapticEngine interface {
	Start() error
	Stop() error
	NewPlayer(p HapticPattern) (HapticPlayer, error)
}

// HapticPlayer plays one pattern on its engine.
type HapticPlayer interface {
	Start() error
	Stop() error
	// SendParameters changes intensity and sharpness of the playing pattern.
	SendParameters(intensity, sharpness float64) error
	// SetCompletionHandler registers fn to be called once playback ends.
	SetCompletionHandler(fn func(error))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
