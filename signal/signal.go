// Package signal converts between engine frames and the integer sample
// formats of audio containers and devices. It allows to:
//	- convert interleaved int data to frames and back
//	- normalize int signals of different bit depths
//	- relate frame counts to durations
package signal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"pipelined.dev/modular"
)

// ErrUnsupportedChannels is returned when interleaved data has a channel
// count frames cannot represent.
var ErrUnsupportedChannels = errors.New("unsupported number of channels")

// BitDepth is a size of int samples to convert from or to.
type BitDepth int

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// divisor normalizes a signed int sample of this depth into [-1, 1).
func (bitDepth BitDepth) divisor() float64 {
	switch bitDepth {
	case BitDepth8, BitDepth16, BitDepth24, BitDepth32:
		return float64(uint(1) << (uint(bitDepth) - 1))
	default:
		return 1
	}
}

// InterInt is an interleaved signed int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// AsFrames converts an interleaved int signal to frames. Mono data is
// spread onto both channels with the power-preserving scale, stereo maps
// left then right. Any other channel count fails.
func (ints InterInt) AsFrames() ([]modular.Frame, error) {
	div := ints.BitDepth.divisor()
	switch ints.NumChannels {
	case 1:
		frames := make([]modular.Frame, len(ints.Data))
		for i, v := range ints.Data {
			frames[i] = modular.Mono(float64(v) / div)
		}
		return frames, nil
	case 2:
		frames := make([]modular.Frame, len(ints.Data)/2)
		for i := range frames {
			frames[i] = modular.Frame{
				Left:  float64(ints.Data[2*i]) / div,
				Right: float64(ints.Data[2*i+1]) / div,
			}
		}
		return frames, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, ints.NumChannels)
}

// AsInts converts frames to an interleaved stereo int signal of the
// provided depth. Samples outside [-1, 1] are clipped.
func AsInts(frames []modular.Frame, bitDepth BitDepth) []int {
	multiplier := bitDepth.divisor() - 1
	ints := make([]int, 2*len(frames))
	for i, f := range frames {
		ints[2*i] = clip(f.Left, multiplier)
		ints[2*i+1] = clip(f.Right, multiplier)
	}
	return ints
}

func clip(x, multiplier float64) int {
	switch {
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}
	return int(x * multiplier)
}

// DurationOf returns the time it takes to play the provided number of
// frames at this rate.
func DurationOf(rate modular.SampleRate, frames int64) time.Duration {
	return time.Duration(float64(frames) / float64(rate) * float64(time.Second))
}

// FrameCount returns the number of frames played over the provided
// duration at this rate, rounded to nearest.
func FrameCount(rate modular.SampleRate, d time.Duration) int {
	return int(math.Round(d.Seconds() * float64(rate)))
}
