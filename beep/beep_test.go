package beep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/modular"
	playback "pipelined.dev/modular/beep"
	"pipelined.dev/modular/mock"
)

func TestStreamer(t *testing.T) {
	patch := modular.NewPatch(44100)
	gen := &mock.Generator{
		Frames: []modular.Frame{
			{Left: 1, Right: -1},
			{Left: 0.5, Right: -0.5},
		},
		Value: modular.Frame{Left: 0.25, Right: -0.25},
	}
	patch.AddNode(modular.NewNode(modular.WithGenerator(gen)), 0, true)

	s := playback.Streamer(patch)
	samples := make([][2]float64, 4)
	n, ok := s.Stream(samples)
	assert.Equal(t, 4, n)
	assert.True(t, ok)
	want := [][2]float64{
		{1, -1},
		{0.5, -0.5},
		{0.25, -0.25},
		{0.25, -0.25},
	}
	assert.Equal(t, want, samples)

	// The stream picks up where the patch left off.
	n, ok = s.Stream(samples[:2])
	assert.Equal(t, 2, n)
	assert.True(t, ok)
	assert.Equal(t, [2]float64{0.25, -0.25}, samples[0])
	assert.Equal(t, 6, gen.Calls)

	assert.NoError(t, s.Err())
}
