/*
Package beep streams patches through the beep playback stack. The
Streamer adapter is pure and usable with any beep composition, the
Player owns the speaker lifecycle for the common case.
*/
package beep

import (
	"context"
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"pipelined.dev/modular"
	"pipelined.dev/modular/metric"
)

const defaultBuffer = time.Second / 20

// Streamer adapts a patch to the beep streaming interface. The stream
// never drains: every call renders fresh ticks.
func Streamer(patch *modular.Patch) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			f := patch.Tick()
			samples[i][0] = f.Left
			samples[i][1] = f.Right
		}
		return len(samples), true
	})
}

// Player plays a patch through the default speaker.
type Player struct {
	patch  *modular.Patch
	buffer time.Duration
}

// PlayerOption configures a player.
type PlayerOption func(*Player)

// WithBuffer overrides the speaker buffer duration.
func WithBuffer(d time.Duration) PlayerOption {
	return func(p *Player) { p.buffer = d }
}

// NewPlayer returns a player for the patch.
func NewPlayer(patch *modular.Patch, opts ...PlayerOption) *Player {
	p := &Player{patch: patch, buffer: defaultBuffer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play opens the speaker at the patch rate and streams until the
// context is done.
func (p *Player) Play(ctx context.Context) error {
	sr := beep.SampleRate(p.patch.Rate())
	if err := speaker.Init(sr, sr.N(p.buffer)); err != nil {
		return fmt.Errorf("speaker: %w", err)
	}
	defer speaker.Close()

	stream := Streamer(p.patch)
	measure := metric.Meter(p, p.patch.Rate())
	speaker.Play(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := stream.Stream(samples)
		measure(int64(n))
		return n, ok
	}))
	<-ctx.Done()
	speaker.Clear()
	return nil
}
