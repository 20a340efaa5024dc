package signal_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/modular"
	"pipelined.dev/modular/signal"
)

func TestAsFramesMono(t *testing.T) {
	ints := signal.InterInt{
		Data:        []int{-128, -64, 0, 64, 127},
		NumChannels: 1,
		BitDepth:    signal.BitDepth8,
	}

	frames, err := ints.AsFrames()
	assert.Nil(t, err)
	assert.Equal(t, len(ints.Data), len(frames))
	for i, v := range ints.Data {
		assert.Equal(t, modular.Mono(float64(v)/128), frames[i], "frame %d", i)
		assert.Equal(t, frames[i].Left, frames[i].Right, "frame %d", i)
	}
}

func TestAsFramesStereo(t *testing.T) {
	ints := signal.InterInt{
		Data:        []int{-32768, 32767, 16384, -16384},
		NumChannels: 2,
		BitDepth:    signal.BitDepth16,
	}

	frames, err := ints.AsFrames()
	assert.Nil(t, err)
	assert.Equal(t, []modular.Frame{
		{Left: -1, Right: 32767.0 / 32768},
		{Left: 0.5, Right: -0.5},
	}, frames)
}

func TestAsFramesChannels(t *testing.T) {
	ints := signal.InterInt{
		Data:        []int{1, 2, 3},
		NumChannels: 3,
		BitDepth:    signal.BitDepth16,
	}

	_, err := ints.AsFrames()
	assert.True(t, errors.Is(err, signal.ErrUnsupportedChannels))
}

func TestAsInts(t *testing.T) {
	frames := []modular.Frame{
		{Left: 0, Right: -1},
		{Left: 0.5, Right: 1},
		{Left: 1.5, Right: -2},
	}

	ints := signal.AsInts(frames, signal.BitDepth16)
	assert.Equal(t, []int{
		0, -32767,
		16383, 32767,
		32767, -32767,
	}, ints)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, signal.DurationOf(48000, 24000))
	assert.Equal(t, 24000, signal.FrameCount(48000, 500*time.Millisecond))
	assert.Equal(t, 13230, signal.FrameCount(44100, 300*time.Millisecond))
}
