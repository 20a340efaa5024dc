package mp3_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/modular"
	"pipelined.dev/modular/mp3"
	"pipelined.dev/modular/wav"
)

func TestSave(t *testing.T) {
	frames := make([]modular.Frame, 4410)
	for i := range frames {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/44100)
		frames[i] = modular.Frame{Left: v, Right: v}
	}
	path := filepath.Join(t.TempDir(), "out.mp3")

	err := mp3.Save(path, wav.NewClip(44100, frames), mp3.DefaultBitRate, mp3.DefaultQuality)
	assert.NoError(t, err)

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestEncodeZeroRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp3")
	err := mp3.Save(path, wav.NewClip(0, nil), mp3.DefaultBitRate, mp3.DefaultQuality)
	assert.ErrorIs(t, err, mp3.ErrSampleRate)
}
