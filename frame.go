package modular

import "math"

type (
	// Frame is a single stereo sample pair. Frames are values: handing
	// a frame downstream gives every receiver its own copy.
	Frame struct {
		Left  float64
		Right float64
	}

	// SampleRate is a number of frames per second.
	SampleRate uint
)

// DefaultSampleRate is assumed by components not constructed with an
// explicit rate.
const DefaultSampleRate SampleRate = 48000

// sqrtHalf scales a mono sample onto two channels without gaining power.
const sqrtHalf = math.Sqrt2 / 2

// Mono spreads a single-channel sample onto both channels, scaled to
// preserve the signal power.
func Mono(x float64) Frame {
	return Frame{Left: x * sqrtHalf, Right: x * sqrtHalf}
}

// Add returns the per-channel sum of two frames.
func (f Frame) Add(o Frame) Frame {
	return Frame{Left: f.Left + o.Left, Right: f.Right + o.Right}
}

// Mul returns the per-channel product of two frames.
func (f Frame) Mul(o Frame) Frame {
	return Frame{Left: f.Left * o.Left, Right: f.Right * o.Right}
}

// Scale returns the frame with both channels multiplied by k.
func (f Frame) Scale(k float64) Frame {
	return Frame{Left: f.Left * k, Right: f.Right * k}
}

// Interval returns the duration of a single frame in seconds.
func (r SampleRate) Interval() float64 {
	return 1 / float64(r)
}
