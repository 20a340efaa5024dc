// Package generator provides the sound sources of the engine:
// oscillators and recorded-sample playback. Every pitched generator
// registers SetFrequency and GetFrequency in its method table, so a
// type-erased holder can retune it between ticks.
package generator

import (
	"errors"

	"pipelined.dev/modular"
)

// ErrSampleRate is returned by constructors when the rate is zero.
var ErrSampleRate = errors.New("zero sample rate")

// Null is an always-silent generator.
type Null struct {
	modular.Table
}

// Generate returns silence.
func (Null) Generate() modular.Frame {
	return modular.Frame{}
}

// registerFrequency wires the conventional frequency methods to a
// concrete oscillator.
func registerFrequency(t *modular.Table, set func(float64), get func() float64) {
	t.Register("SetFrequency", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		set(v)
		return nil
	})
	t.Register("GetFrequency", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = get()
		return nil
	})
}
