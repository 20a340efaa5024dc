package modifier

import (
	"time"

	"pipelined.dev/modular"
	"pipelined.dev/modular/signal"
)

// Delay postpones its input by a fixed interval. Until the line has
// filled it produces silence.
type Delay struct {
	modular.Table
	ring []modular.Frame
	pos  int
}

// NewDelay returns a delay line. The interval is converted to a whole
// number of frames at the provided rate and must cover at least one.
func NewDelay(rate modular.SampleRate, d time.Duration) (*Delay, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	frames := signal.FrameCount(rate, d)
	if frames < 1 {
		return nil, ErrDuration
	}
	return &Delay{ring: make([]modular.Frame, frames)}, nil
}

// Modify emits the frame received len(ring) calls ago and stores f in
// its place.
func (d *Delay) Modify(f modular.Frame) modular.Frame {
	out := d.ring[d.pos]
	d.ring[d.pos] = f
	d.pos++
	if d.pos == len(d.ring) {
		d.pos = 0
	}
	return out
}
