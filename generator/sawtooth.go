package generator

import "pipelined.dev/modular"

// Sawtooth is a sawtooth-wave oscillator: a linear rise from -1 to 1
// once per period, then an instant drop.
type Sawtooth struct {
	modular.Table
	rate  modular.SampleRate
	freq  float64
	inc   float64
	irate float64
}

// NewSawtooth returns a sawtooth oscillator at the provided frequency.
func NewSawtooth(rate modular.SampleRate, freq float64) (*Sawtooth, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	g := &Sawtooth{rate: rate}
	g.SetFrequency(freq)
	registerFrequency(&g.Table, g.SetFrequency, g.Frequency)
	return g, nil
}

// SetFrequency retunes the oscillator.
func (g *Sawtooth) SetFrequency(freq float64) {
	g.freq = freq
	g.irate = 2 * freq * g.rate.Interval()
}

// Frequency returns the oscillator frequency.
func (g *Sawtooth) Frequency() float64 {
	return g.freq
}

// Generate emits the next point of the rise on both channels.
func (g *Sawtooth) Generate() modular.Frame {
	g.inc += g.irate
	if g.inc >= 1 {
		g.inc -= 2
	}
	return modular.Frame{Left: g.inc, Right: g.inc}
}
