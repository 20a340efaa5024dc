package modifier

import (
	"time"

	"pipelined.dev/modular"
	"pipelined.dev/modular/signal"
)

// Echo is a feedback delay: each output frame is the dry input plus
// the attenuated output from one interval earlier. Because the wet
// frame re-enters the line, repeats decay geometrically by the ratio.
type Echo struct {
	modular.Table
	ring  []modular.Frame
	pos   int
	ratio float64
}

// NewEcho returns an echo with the provided interval and feedback
// ratio. Ratios at or above 1 make the tail grow instead of decay.
func NewEcho(rate modular.SampleRate, d time.Duration, ratio float64) (*Echo, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	frames := signal.FrameCount(rate, d)
	if frames < 1 {
		return nil, ErrDuration
	}
	e := &Echo{ring: make([]modular.Frame, frames), ratio: ratio}
	e.Register("SetRatio", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		e.ratio = v
		return nil
	})
	e.Register("GetRatio", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = e.ratio
		return nil
	})
	return e, nil
}

// Modify mixes the delayed output into f and feeds the mix back into
// the line.
func (e *Echo) Modify(f modular.Frame) modular.Frame {
	wet := e.ring[e.pos]
	out := modular.Frame{
		Left:  wet.Left*e.ratio + f.Left,
		Right: wet.Right*e.ratio + f.Right,
	}
	e.ring[e.pos] = out
	e.pos++
	if e.pos == len(e.ring) {
		e.pos = 0
	}
	return out
}
