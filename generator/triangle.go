package generator

import "pipelined.dev/modular"

// Triangle is a triangle-wave oscillator. It ramps linearly between -1
// and 1, flipping the ramp direction at the turning points, which keeps
// it free of trigonometric calls on the tick path.
type Triangle struct {
	modular.Table
	rate  modular.SampleRate
	freq  float64
	inc   float64
	irate float64
}

// NewTriangle returns a triangle oscillator at the provided frequency.
func NewTriangle(rate modular.SampleRate, freq float64) (*Triangle, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	g := &Triangle{rate: rate, freq: freq}
	g.irate = 4 * freq * rate.Interval()
	registerFrequency(&g.Table, g.SetFrequency, g.Frequency)
	return g, nil
}

// SetFrequency retunes the oscillator. The current ramp direction is
// kept, so retuning mid-ramp does not jump the output.
func (g *Triangle) SetFrequency(freq float64) {
	g.freq = freq
	if g.irate < 0 {
		freq = -freq
	}
	g.irate = 4 * freq * g.rate.Interval()
}

// Frequency returns the oscillator frequency.
func (g *Triangle) Frequency() float64 {
	return g.freq
}

// Generate emits the next point of the ramp on both channels.
func (g *Triangle) Generate() modular.Frame {
	g.inc += g.irate
	if g.inc >= 1 || g.inc <= -1 {
		g.irate = -g.irate
		if g.inc >= 1 {
			g.inc = 2 - g.inc
		} else {
			g.inc = -2 - g.inc
		}
	}
	return modular.Frame{Left: g.inc, Right: g.inc}
}
