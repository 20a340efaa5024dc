// Package portaudio plays patches through the default output device.
package portaudio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/modular"
	"pipelined.dev/modular/log"
	"pipelined.dev/modular/metric"
)

const defaultBufferSize = 512

// Player renders a patch into the default portaudio stream, one
// buffer of frames at a time.
type Player struct {
	patch      *modular.Patch
	bufferSize int
	logger     log.Logger
}

// PlayerOption configures a player.
type PlayerOption func(*Player)

// WithBufferSize overrides the stream buffer size in frames.
func WithBufferSize(size int) PlayerOption {
	return func(p *Player) { p.bufferSize = size }
}

// WithLogger overrides the player logger.
func WithLogger(logger log.Logger) PlayerOption {
	return func(p *Player) { p.logger = logger }
}

// NewPlayer returns a player for the patch.
func NewPlayer(patch *modular.Patch, opts ...PlayerOption) *Player {
	p := &Player{
		patch:      patch,
		bufferSize: defaultBufferSize,
		logger:     log.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play opens the default stream at the patch rate and renders until
// the context is done. The device clock drives the patch: every
// buffer is rendered right before it is written out.
func (p *Player) Play(ctx context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	buf := make([]float32, p.bufferSize*2)
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(p.patch.Rate()), p.bufferSize, &buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("portaudio: %w", err)
	}
	p.logger.Debug("portaudio: playback started")

	frames := make([]modular.Frame, p.bufferSize)
	measure := metric.Meter(p, p.patch.Rate())
	var playErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		p.patch.Fill(frames)
		for i, f := range frames {
			buf[2*i] = float32(f.Left)
			buf[2*i+1] = float32(f.Right)
		}
		if err := stream.Write(); err != nil {
			if err == portaudio.OutputUnderflowed {
				p.logger.Debug("portaudio: output underflowed")
				continue
			}
			playErr = fmt.Errorf("portaudio: %w", err)
			break
		}
		measure(int64(len(frames)))
	}
	p.logger.Debug("portaudio: playback stopped")

	if err := stream.Stop(); err != nil && playErr == nil {
		playErr = fmt.Errorf("portaudio: %w", err)
	}
	if err := stream.Close(); err != nil && playErr == nil {
		playErr = fmt.Errorf("portaudio: %w", err)
	}
	if err := portaudio.Terminate(); err != nil && playErr == nil {
		playErr = fmt.Errorf("portaudio: %w", err)
	}
	return playErr
}
