/*
Package vocoder implements a channel vocoder assembled from the
engine's own nodes. The modulator signal is split into logarithmically
spaced bands, the level of each band is tracked with an envelope
follower and used to shape a square carrier tuned to the band center.
The carriers of all bands sum into the vocoder output.

The vocoder is itself a generator, so it can sit inside a node of a
larger patch.
*/
package vocoder

import (
	"errors"
	"math"

	"pipelined.dev/modular"
	"pipelined.dev/modular/generator"
	"pipelined.dev/modular/modifier"
)

// Construction errors.
var (
	// ErrSampleRate is returned when the rate is zero.
	ErrSampleRate = errors.New("zero sample rate")

	// ErrBands is returned when no bands are requested.
	ErrBands = errors.New("vocoder needs at least one band")

	// ErrSource is returned when the modulator source is missing.
	ErrSource = errors.New("nil modulator source")
)

// Band spectrum bounds and the follower corners shared by all bands.
const (
	lowEdge    = 80.0
	highEdge   = 4000.0
	fallCorner = 20.0
	riseCorner = 20000.0
)

// Vocoder drives a bank of carrier oscillators with the band levels
// of a modulator source.
type Vocoder struct {
	modular.Table
	patch    *modular.Patch
	carriers []*generator.Square
	centers  []float64
	offset   float64
}

// New returns a vocoder reading the modulator from source and
// synthesizing with the provided number of bands.
func New(rate modular.SampleRate, source modular.Generator, bands int) (*Vocoder, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	if source == nil {
		return nil, ErrSource
	}
	if bands < 1 {
		return nil, ErrBands
	}

	// Band edges are spaced evenly on the log axis; every band center
	// is the geometric mean of its edges and all filters share the
	// quality of the first band.
	delta := (math.Log10(highEdge) - math.Log10(lowEdge)) / float64(bands)
	edges := make([]float64, bands+1)
	for i := range edges {
		edges[i] = lowEdge * math.Pow(10, float64(i)*delta)
	}
	quality := math.Sqrt(edges[1]*edges[0]) / (edges[1] - edges[0])

	v := &Vocoder{
		patch:    modular.NewPatch(rate),
		carriers: make([]*generator.Square, 0, bands),
		centers:  make([]float64, 0, bands),
	}
	src := modular.NewNode(modular.WithGenerator(source))
	v.patch.AddNode(src, 0, false)

	for i := 0; i < bands; i++ {
		center := math.Sqrt(edges[i] * edges[i+1])

		band, err := modifier.NewBandPass(rate, center, quality)
		if err != nil {
			return nil, err
		}
		bandNode := modular.NewNode(modular.WithModifier(band))
		v.patch.AddNode(bandNode, 1, false)
		src.AddTarget(bandNode)

		carrier, err := generator.NewSquare(rate, center)
		if err != nil {
			return nil, err
		}
		follower, err := modifier.NewEnvelopeFollower(rate, fallCorner, riseCorner)
		if err != nil {
			return nil, err
		}
		carrierNode := modular.NewNode(
			modular.WithGenerator(carrier),
			modular.WithModifier(follower),
		)
		v.patch.AddNode(carrierNode, 2, true)
		bandNode.AddTarget(carrierNode)

		v.carriers = append(v.carriers, carrier)
		v.centers = append(v.centers, center)
	}

	v.Register("SetOffset", func(args []interface{}) error {
		cents, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		v.SetOffset(cents)
		return nil
	})
	v.Register("GetOffset", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = v.offset
		return nil
	})
	return v, nil
}

// Generate evaluates one tick of the vocoder graph.
func (v *Vocoder) Generate() modular.Frame {
	return v.patch.Tick()
}

// SetOffset retunes every carrier away from its band center by the
// provided amount in cents. The analysis filters stay in place.
func (v *Vocoder) SetOffset(cents float64) {
	v.offset = cents
	mu := math.Pow(2, cents/1200)
	for i, carrier := range v.carriers {
		carrier.SetFrequency(v.centers[i] * mu)
	}
}

// Offset returns the current carrier offset in cents.
func (v *Vocoder) Offset() float64 {
	return v.offset
}

// Centers returns the band center frequencies.
func (v *Vocoder) Centers() []float64 {
	out := make([]float64, len(v.centers))
	copy(out, v.centers)
	return out
}

// Patch exposes the internal graph.
func (v *Vocoder) Patch() *modular.Patch {
	return v.patch
}
