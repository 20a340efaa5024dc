package vocoder_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/maddyblue/go-dsp/fft"
	"github.com/stretchr/testify/assert"

	"pipelined.dev/modular"
	"pipelined.dev/modular/generator"
	"pipelined.dev/modular/vocoder"
)

const testRate modular.SampleRate = 48000

func newSource(t *testing.T, freq float64) *generator.Sine {
	t.Helper()
	src, err := generator.NewSine(testRate, freq)
	assert.NoError(t, err)
	return src
}

// centroid locates the spectral balance point of a signal as the
// power-weighted mean bin index.
func centroid(samples []float64) float64 {
	spectrum := fft.FFTReal(samples)
	var weighted, total float64
	for bin := 1; bin < len(spectrum)/2; bin++ {
		power := cmplx.Abs(spectrum[bin])
		power *= power
		weighted += float64(bin) * power
		total += power
	}
	return weighted / total
}

func collect(v *vocoder.Vocoder, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v.Generate().Left
	}
	return out
}

func TestVocoderBands(t *testing.T) {
	v, err := vocoder.New(testRate, newSource(t, 440), 4)
	assert.NoError(t, err)

	centers := v.Centers()
	assert.Len(t, centers, 4)

	// Edges run from 80 Hz to 4 kHz on a log scale, centers are the
	// geometric means of neighbouring edges.
	delta := (math.Log10(4000) - math.Log10(80)) / 4
	for i, center := range centers {
		lo := 80 * math.Pow(10, float64(i)*delta)
		hi := 80 * math.Pow(10, float64(i+1)*delta)
		assert.InDelta(t, math.Sqrt(lo*hi), center, 1e-9)
	}
	for i := 1; i < len(centers); i++ {
		assert.Greater(t, centers[i], centers[i-1])
	}
	assert.Greater(t, centers[0], 80.0)
	assert.Less(t, centers[3], 4000.0)
}

func TestVocoderSynthesis(t *testing.T) {
	src := newSource(t, 440)
	v, err := vocoder.New(testRate, src, 4)
	assert.NoError(t, err)

	// A modulator at a band center excites that band: after the
	// envelopes settle the output carries energy.
	src.SetFrequency(v.Centers()[1])
	collect(v, 9600)
	var sum float64
	for _, x := range collect(v, 4800) {
		assert.False(t, math.IsNaN(x) || math.IsInf(x, 0))
		sum += x * x
	}
	assert.Greater(t, math.Sqrt(sum/4800), 0.01)
}

func TestVocoderSilentModulator(t *testing.T) {
	src := newSource(t, 440)
	v, err := vocoder.New(testRate, src, 4)
	assert.NoError(t, err)

	// A silent modulator leaves every envelope at zero, so the
	// carriers stay muted.
	src.SetFrequency(0)
	for _, x := range collect(v, 4800) {
		assert.InDelta(t, 0, x, 1e-6)
	}
}

func TestVocoderOffset(t *testing.T) {
	src := newSource(t, 440)
	v, err := vocoder.New(testRate, src, 4)
	assert.NoError(t, err)
	src.SetFrequency(v.Centers()[1])

	collect(v, 9600)
	before := centroid(collect(v, 4096))

	// An octave up doubles every carrier, moving the spectral weight
	// up while the analysis side stays put.
	assert.NoError(t, v.Call("SetOffset", 1200.0))
	assert.Equal(t, 1200.0, v.Offset())
	collect(v, 4800)
	after := centroid(collect(v, 4096))
	assert.Greater(t, after, 1.4*before)

	var cents float64
	assert.NoError(t, v.Call("GetOffset", &cents))
	assert.Equal(t, 1200.0, cents)

	assert.ErrorIs(t, v.Call("SetOffset"), modular.ErrMethodArgs)
	assert.ErrorIs(t, v.Call("Detune", 1.0), modular.ErrUnknownMethod)
}

func TestVocoderInPatch(t *testing.T) {
	src := newSource(t, 440)
	v, err := vocoder.New(testRate, src, 4)
	assert.NoError(t, err)
	src.SetFrequency(v.Centers()[2])

	// The vocoder is a generator like any other: a patch can hold it
	// in a node.
	patch := modular.NewPatch(testRate)
	patch.AddNode(modular.NewNode(modular.WithGenerator(v)), 0, true)

	var sum float64
	for i := 0; i < 9600; i++ {
		f := patch.Tick()
		if i >= 4800 {
			sum += f.Left * f.Left
		}
	}
	assert.Greater(t, math.Sqrt(sum/4800), 0.01)
}

func TestVocoderErrors(t *testing.T) {
	src := newSource(t, 440)

	_, err := vocoder.New(0, src, 4)
	assert.ErrorIs(t, err, vocoder.ErrSampleRate)

	_, err = vocoder.New(testRate, nil, 4)
	assert.ErrorIs(t, err, vocoder.ErrSource)

	_, err = vocoder.New(testRate, src, 0)
	assert.ErrorIs(t, err, vocoder.ErrBands)
}
