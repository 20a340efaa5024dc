package generator

import "pipelined.dev/modular"

// Square is a square-wave oscillator with 50% duty cycle. A hidden ramp
// wraps once per period; the output is the sign of the ramp.
type Square struct {
	modular.Table
	rate modular.SampleRate
	freq float64
	ind  float64
	inv  float64
}

// NewSquare returns a square oscillator at the provided frequency.
func NewSquare(rate modular.SampleRate, freq float64) (*Square, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	g := &Square{rate: rate}
	g.SetFrequency(freq)
	registerFrequency(&g.Table, g.SetFrequency, g.Frequency)
	return g, nil
}

// SetFrequency retunes the oscillator.
func (g *Square) SetFrequency(freq float64) {
	g.freq = freq
	g.inv = 2 * freq * g.rate.Interval()
}

// Frequency returns the oscillator frequency.
func (g *Square) Frequency() float64 {
	return g.freq
}

// Generate emits 1 or -1 on both channels.
func (g *Square) Generate() modular.Frame {
	g.ind += g.inv
	if g.ind >= 1 {
		g.ind -= 2
	}
	v := 1.0
	if g.ind < 0 {
		v = -1
	}
	return modular.Frame{Left: v, Right: v}
}
