package generator

import (
	"math/rand"
	"time"

	"pipelined.dev/modular"
)

type (
	// Noise is a white-noise generator: uniform samples in [-1, 1),
	// drawn from a per-instance source.
	Noise struct {
		modular.Table
		rnd *rand.Rand
	}

	// NoiseOption configures a noise generator.
	NoiseOption func(*Noise)
)

// WithSeed makes the noise sequence deterministic.
func WithSeed(seed int64) NoiseOption {
	return func(g *Noise) {
		g.rnd = rand.New(rand.NewSource(seed))
	}
}

// NewNoise returns a white-noise generator.
func NewNoise(opts ...NoiseOption) *Noise {
	g := &Noise{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate emits one noise sample on both channels.
func (g *Noise) Generate() modular.Frame {
	v := 2*g.rnd.Float64() - 1
	return modular.Frame{Left: v, Right: v}
}
