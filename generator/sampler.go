package generator

import (
	"fmt"

	"pipelined.dev/modular"
	"pipelined.dev/modular/resample"
)

// Sampler plays recorded frames through a resampling cursor. Speed is a
// runtime parameter: SetSpeed and GetSpeed are registered in the method
// table. A sampler over no data is permanently silent.
type Sampler struct {
	modular.Table
	cursor *resample.Resampler
}

// NewSampler returns a sampler over data recorded at the source rate,
// to be ticked at the output rate. Loop region and initial speed come
// from resample options.
func NewSampler(data []modular.Frame, source, output modular.SampleRate, opts ...resample.Option) (*Sampler, error) {
	cursor, err := resample.New(data, source, output, opts...)
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	s := &Sampler{cursor: cursor}
	s.Register("SetSpeed", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		s.SetSpeed(v)
		return nil
	})
	s.Register("GetSpeed", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = s.Speed()
		return nil
	})
	return s, nil
}

// SetSpeed changes the playback speed. 1 is recorded speed, negative
// plays in reverse.
func (s *Sampler) SetSpeed(speed float64) {
	s.cursor.SetSpeed(speed)
}

// Speed returns the playback speed.
func (s *Sampler) Speed() float64 {
	return s.cursor.Speed()
}

// Generate emits the next interpolated frame of the recording.
func (s *Sampler) Generate() modular.Frame {
	return s.cursor.Generate()
}
