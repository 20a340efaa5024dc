/*
Package wav decodes and encodes wav containers at the engine boundary.
Decoded audio becomes a Clip: frames at the recorded rate, detached
from the container. Resampling to the engine rate is not done here,
samplers own that concern.
*/
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pipelined.dev/modular"
	"pipelined.dev/modular/signal"
)

// Decode and encode errors.
var (
	// ErrInvalidFile is returned when the reader holds no valid wav.
	ErrInvalidFile = errors.New("not a valid wav file")

	// ErrUnsupportedBitDepth is returned for depths the engine cannot
	// normalize.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrSampleRate is returned when a clip carries no rate.
	ErrSampleRate = errors.New("zero sample rate")
)

const (
	chunkFrames    = 1024
	audioFormatPCM = 1
)

// Clip is decoded audio: stereo frames at their recorded rate.
type Clip struct {
	rate   modular.SampleRate
	frames []modular.Frame
}

// NewClip wraps rendered frames into a clip.
func NewClip(rate modular.SampleRate, frames []modular.Frame) *Clip {
	return &Clip{rate: rate, frames: frames}
}

// Rate returns the rate the clip was recorded at.
func (c *Clip) Rate() modular.SampleRate {
	return c.rate
}

// Frames returns the clip data.
func (c *Clip) Frames() []modular.Frame {
	return c.frames
}

// Duration returns the clip length in time at its recorded rate.
func (c *Clip) Duration() time.Duration {
	return signal.DurationOf(c.rate, int64(len(c.frames)))
}

// Decode reads a wav container into a clip. Mono files are folded onto
// both channels with the power-preserving scale, 8 bit samples are
// recentered from their unsigned disk form.
func Decode(r io.ReadSeeker) (*Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}
	channels := decoder.Format().NumChannels
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d", signal.ErrUnsupportedChannels, channels)
	}
	depth := signal.BitDepth(decoder.BitDepth)
	switch depth {
	case signal.BitDepth8, signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, decoder.BitDepth)
	}

	clip := &Clip{rate: modular.SampleRate(decoder.SampleRate)}
	ib := &audio.IntBuffer{
		Format:         decoder.Format(),
		Data:           make([]int, chunkFrames*channels),
		SourceBitDepth: int(decoder.BitDepth),
	}
	for {
		read, err := decoder.PCMBuffer(ib)
		if err != nil {
			return nil, fmt.Errorf("decode pcm: %w", err)
		}
		if read == 0 {
			break
		}
		read -= read % channels
		chunk := ib.Data[:read]
		if depth == signal.BitDepth8 {
			// 8 bit wav data is unsigned on disk.
			for i := range chunk {
				chunk[i] -= 128
			}
		}
		frames, err := signal.InterInt{
			Data:        chunk,
			NumChannels: channels,
			BitDepth:    depth,
		}.AsFrames()
		if err != nil {
			return nil, err
		}
		clip.frames = append(clip.frames, frames...)
	}
	return clip, nil
}

// Load decodes the wav file at path.
func Load(path string) (*Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	clip, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return clip, nil
}

// Encode writes the clip as a stereo PCM wav of the provided depth.
func Encode(w io.WriteSeeker, clip *Clip, bitDepth signal.BitDepth) error {
	if clip.rate == 0 {
		return ErrSampleRate
	}
	switch bitDepth {
	case signal.BitDepth8, signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	data := signal.AsInts(clip.frames, bitDepth)
	if bitDepth == signal.BitDepth8 {
		for i := range data {
			data[i] += 128
		}
	}
	encoder := wav.NewEncoder(w, int(clip.rate), int(bitDepth), 2, audioFormatPCM)
	err := encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  int(clip.rate),
		},
		Data:           data,
		SourceBitDepth: int(bitDepth),
	})
	if err != nil {
		return fmt.Errorf("encode pcm: %w", err)
	}
	return encoder.Close()
}

// Save encodes the clip into the file at path.
func Save(path string, clip *Clip, bitDepth signal.BitDepth) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(file, clip, bitDepth); err != nil {
		file.Close()
		return fmt.Errorf("save %q: %w", path, err)
	}
	return file.Close()
}
