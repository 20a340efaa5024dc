package modifier

import "pipelined.dev/modular"

// Gain scales both channels by a constant factor.
type Gain struct {
	modular.Table
	gain float64
}

// NewGain returns a gain stage with the provided factor.
func NewGain(gain float64) *Gain {
	g := &Gain{gain: gain}
	g.Register("SetGain", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		g.gain = v
		return nil
	})
	g.Register("GetGain", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = g.gain
		return nil
	})
	return g
}

// Modify scales f by the gain factor.
func (g *Gain) Modify(f modular.Frame) modular.Frame {
	return f.Scale(g.gain)
}
