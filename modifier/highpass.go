package modifier

import (
	"math"

	"pipelined.dev/modular"
)

// HighPass is a third order high pass filter with a resonance
// control. Cutoff is clamped to the Nyquist frequency and resonance
// to the unit interval.
type HighPass struct {
	modular.Table
	rate      modular.SampleRate
	cutoff    float64
	resonance float64

	a0, a1, a2, a3 float64
	b1, b2, b3     float64
	x1, x2, x3     modular.Frame
	y1, y2, y3     modular.Frame
}

// NewHighPass returns a high pass filter with the provided cutoff and
// resonance.
func NewHighPass(rate modular.SampleRate, cutoff, resonance float64) (*HighPass, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	h := &HighPass{rate: rate}
	h.set(cutoff, resonance)
	h.Register("SetFrequency", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		h.set(v, h.resonance)
		return nil
	})
	h.Register("GetFrequency", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = h.cutoff
		return nil
	})
	h.Register("SetResonance", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		h.set(h.cutoff, v)
		return nil
	})
	h.Register("GetResonance", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = h.resonance
		return nil
	})
	return h, nil
}

// set clamps the parameters and rebuilds the coefficients.
func (h *HighPass) set(cutoff, resonance float64) {
	if max := float64(h.rate) / 2; cutoff > max {
		cutoff = max
	}
	if resonance < 0 {
		resonance = 0
	} else if resonance > 1 {
		resonance = 1
	}
	h.cutoff = cutoff
	h.resonance = resonance

	theta := math.Pi * (4 - resonance) / 6
	k := 1 - 2*math.Cos(theta)
	t := 2 * math.Pi * cutoff / float64(h.rate)
	g := t*t*t + k*t*t + k*t + 1

	h.a0 = 1 / g
	h.a1 = -3 / g
	h.a2 = 3 / g
	h.a3 = -1 / g
	h.b1 = (k*t*t + 2*k*t + 3) / g
	h.b2 = (-k*t - 3) / g
	h.b3 = 1 / g
}

// Modify filters f.
func (h *HighPass) Modify(f modular.Frame) modular.Frame {
	y := modular.Frame{
		Left: h.a0*f.Left + h.a1*h.x1.Left + h.a2*h.x2.Left + h.a3*h.x3.Left +
			h.b1*h.y1.Left + h.b2*h.y2.Left + h.b3*h.y3.Left,
		Right: h.a0*f.Right + h.a1*h.x1.Right + h.a2*h.x2.Right + h.a3*h.x3.Right +
			h.b1*h.y1.Right + h.b2*h.y2.Right + h.b3*h.y3.Right,
	}
	h.x3, h.x2, h.x1 = h.x2, h.x1, f
	h.y3, h.y2, h.y1 = h.y2, h.y1, y
	return y
}
