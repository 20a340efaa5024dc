// Package modifier provides the frame transformers of the engine:
// gain, delays, filters and envelopes. Stateful modifiers keep
// per-channel state, so the two channels of a frame stay independent.
package modifier

import (
	"errors"

	"pipelined.dev/modular"
)

// Construction errors.
var (
	// ErrSampleRate is returned by constructors when the rate is zero.
	ErrSampleRate = errors.New("zero sample rate")

	// ErrDuration is returned when a delay line would be shorter than
	// one frame.
	ErrDuration = errors.New("duration under one frame")
)

// Passthrough returns its input unchanged.
type Passthrough struct {
	modular.Table
}

// Modify returns f.
func (Passthrough) Modify(f modular.Frame) modular.Frame {
	return f
}
