// Package resample plays recorded frames back at an arbitrary rate. It
// converts between a recording's rate and the engine rate with linear
// interpolation, supports variable playback speed including reverse, and
// can loop a region of the recording.
package resample

import (
	"errors"
	"fmt"

	"pipelined.dev/modular"
)

// Construction errors.
var (
	// ErrLoopBounds is returned when a loop region is inverted or
	// outside the data.
	ErrLoopBounds = errors.New("invalid loop bounds")

	// ErrSampleRate is returned when either rate is zero.
	ErrSampleRate = errors.New("zero sample rate")
)

type (
	// Resampler is a playback cursor over recorded frames. It is a
	// modular.Generator: every Generate call emits one interpolated
	// frame and advances the cursor by the rate ratio times the
	// playback speed.
	Resampler struct {
		data      []modular.Frame
		index     float64
		increment float64
		speed     float64
		loopStart uint64
		loopEnd   uint64
	}

	// Option configures a resampler under construction.
	Option func(*Resampler) error
)

// WithLoop makes the region [start, end) repeat once the cursor reaches
// end. Frame indices; end of zero means no looping.
func WithLoop(start, end uint64) Option {
	return func(r *Resampler) error {
		if end != 0 && (start >= end || end > uint64(len(r.data))) {
			return fmt.Errorf("%w: [%d, %d) over %d frames", ErrLoopBounds, start, end, len(r.data))
		}
		r.loopStart = start
		r.loopEnd = end
		return nil
	}
}

// WithSpeed sets the initial playback speed. 1 is recorded speed,
// negative plays in reverse.
func WithSpeed(speed float64) Option {
	return func(r *Resampler) error {
		r.speed = speed
		return nil
	}
}

// New returns a resampler over data recorded at the source rate, played
// back by something ticking at the output rate.
func New(data []modular.Frame, source, output modular.SampleRate, opts ...Option) (*Resampler, error) {
	if source == 0 || output == 0 {
		return nil, ErrSampleRate
	}
	r := &Resampler{
		data:      data,
		increment: float64(source) * output.Interval(),
		speed:     1,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SetSpeed changes the playback speed.
func (r *Resampler) SetSpeed(speed float64) {
	r.speed = speed
}

// Speed returns the playback speed.
func (r *Resampler) Speed() float64 {
	return r.speed
}

// Generate emits the frame under the cursor and advances it. Past the
// end of unlooped data it emits silence forever.
func (r *Resampler) Generate() modular.Frame {
	idx := uint64(r.index)
	if idx >= uint64(len(r.data)) && r.loopEnd == 0 {
		return modular.Frame{}
	}

	fraction := r.index - float64(idx)
	x1 := r.data[idx]
	var x2 modular.Frame
	switch {
	case idx+1 >= uint64(len(r.data)) && r.loopEnd != 0:
		// the next frame wraps into the loop region
		wrapped := int64(r.index - float64(r.loopEnd-r.loopStart))
		if wrapped < 0 {
			wrapped = 0
		}
		x2 = r.data[wrapped]
	case idx+1 >= uint64(len(r.data)):
		x2 = r.data[idx]
	default:
		x2 = r.data[idx+1]
	}

	out := modular.Frame{
		Left:  x1.Left + fraction*(x2.Left-x1.Left),
		Right: x1.Right + fraction*(x2.Right-x1.Right),
	}

	r.index += r.increment * r.speed
	for r.loopEnd != 0 && r.index >= float64(r.loopEnd) {
		r.index -= float64(r.loopEnd - r.loopStart)
	}
	if r.index < 0 {
		r.index = 0
	}
	return out
}
