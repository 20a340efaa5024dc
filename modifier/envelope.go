package modifier

import (
	"math"

	"pipelined.dev/modular"
)

// EnvelopeFollower tracks the level of its input. It rectifies each
// channel and smooths it with a one pole filter, switching between a
// fast corner while the level rises and a slow one while it falls.
type EnvelopeFollower struct {
	modular.Table
	falling float64
	rising  float64
	prev    modular.Frame
}

// NewEnvelopeFollower returns a follower with the provided falling
// and rising corner frequencies.
func NewEnvelopeFollower(rate modular.SampleRate, falling, rising float64) (*EnvelopeFollower, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	return &EnvelopeFollower{
		falling: smoothing(rate, falling),
		rising:  smoothing(rate, rising),
	}, nil
}

// smoothing derives the per frame smoothing factor for a corner
// frequency, prewarped for the sample rate.
func smoothing(rate modular.SampleRate, freq float64) float64 {
	theta := math.Tan(math.Pi * freq / float64(rate))
	return theta / (1 + theta)
}

// Modify replaces both channels with their followed level.
func (e *EnvelopeFollower) Modify(f modular.Frame) modular.Frame {
	e.prev = modular.Frame{
		Left:  e.follow(math.Abs(f.Left), e.prev.Left),
		Right: e.follow(math.Abs(f.Right), e.prev.Right),
	}
	return e.prev
}

func (e *EnvelopeFollower) follow(in, prev float64) float64 {
	if in > prev {
		return prev + e.rising*(in-prev)
	}
	return prev + e.falling*(in-prev)
}
