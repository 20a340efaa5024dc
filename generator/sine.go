package generator

import (
	"math"

	"pipelined.dev/modular"
)

// Sine is a sine-wave oscillator built on a phase accumulator.
type Sine struct {
	modular.Table
	rate  modular.SampleRate
	freq  float64
	phase float64
}

// NewSine returns a sine oscillator at the provided frequency.
func NewSine(rate modular.SampleRate, freq float64) (*Sine, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	g := &Sine{rate: rate, freq: freq}
	registerFrequency(&g.Table, g.SetFrequency, g.Frequency)
	return g, nil
}

// SetFrequency retunes the oscillator. The phase is kept, so retuning
// does not click.
func (g *Sine) SetFrequency(freq float64) {
	g.freq = freq
}

// Frequency returns the oscillator frequency.
func (g *Sine) Frequency() float64 {
	return g.freq
}

// Generate emits the next sine point on both channels.
func (g *Sine) Generate() modular.Frame {
	v := math.Sin(2 * math.Pi * g.phase)
	g.phase += g.freq * g.rate.Interval()
	if g.phase >= 1 {
		g.phase--
	} else if g.phase < 0 {
		g.phase++
	}
	return modular.Frame{Left: v, Right: v}
}
