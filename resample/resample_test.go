package resample_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/modular"
	"pipelined.dev/modular/resample"
)

func ramp(n int) []modular.Frame {
	frames := make([]modular.Frame, n)
	for i := range frames {
		frames[i] = modular.Frame{Left: float64(i), Right: -float64(i)}
	}
	return frames
}

func TestIdentity(t *testing.T) {
	data := ramp(5)
	r, err := resample.New(data, 48000, 48000)
	assert.Nil(t, err)

	for i := range data {
		assert.Equal(t, data[i], r.Generate(), "frame %d", i)
	}
	// past the end: silence forever
	for i := 0; i < 3; i++ {
		assert.Equal(t, modular.Frame{}, r.Generate())
	}
}

func TestInterpolation(t *testing.T) {
	// half speed steps the cursor by 0.5 source frames per tick
	data := ramp(3)
	r, err := resample.New(data, 48000, 48000, resample.WithSpeed(0.5))
	assert.Nil(t, err)

	want := []float64{0, 0.5, 1, 1.5, 2}
	for i, w := range want {
		got := r.Generate()
		assert.Equal(t, w, got.Left, "frame %d", i)
		assert.Equal(t, -w, got.Right, "frame %d", i)
	}
}

func TestRateRatio(t *testing.T) {
	// a 24k recording played at 48k advances half a source frame per tick
	data := ramp(3)
	r, err := resample.New(data, 24000, 48000)
	assert.Nil(t, err)

	want := []float64{0, 0.5, 1, 1.5, 2}
	for i, w := range want {
		assert.Equal(t, w, r.Generate().Left, "frame %d", i)
	}
}

func TestLoopWrap(t *testing.T) {
	data := ramp(4)
	r, err := resample.New(data, 48000, 48000, resample.WithLoop(1, 4))
	assert.Nil(t, err)

	// 0 1 2 3, then the region [1, 4) repeats
	want := []float64{0, 1, 2, 3, 1, 2, 3, 1}
	for i, w := range want {
		assert.Equal(t, w, r.Generate().Left, "frame %d", i)
	}
}

func TestLoopBounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end uint64
		ok         bool
	}{
		{"whole clip", 0, 4, true},
		{"no loop", 0, 0, true},
		{"inverted", 3, 2, false},
		{"past data", 1, 5, false},
	}

	for _, test := range tests {
		_, err := resample.New(ramp(4), 48000, 48000, resample.WithLoop(test.start, test.end))
		if test.ok {
			assert.Nil(t, err, test.name)
		} else {
			assert.True(t, errors.Is(err, resample.ErrLoopBounds), test.name)
		}
	}
}

func TestReverseStopsAtStart(t *testing.T) {
	data := ramp(4)
	r, err := resample.New(data, 48000, 48000, resample.WithSpeed(-1))
	assert.Nil(t, err)

	// the cursor never goes below zero
	for i := 0; i < 4; i++ {
		assert.Equal(t, data[0], r.Generate(), "frame %d", i)
	}

	r.SetSpeed(1)
	assert.Equal(t, 1.0, r.Speed())
	assert.Equal(t, data[0], r.Generate())
	assert.Equal(t, data[1], r.Generate())
}

func TestEmptyData(t *testing.T) {
	r, err := resample.New(nil, 48000, 48000)
	assert.Nil(t, err)
	assert.Equal(t, modular.Frame{}, r.Generate())
}
