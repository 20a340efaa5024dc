// Package mp3 encodes rendered clips into mp3 through the lame
// encoder.
package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/viert/lame"

	"pipelined.dev/modular/signal"
	"pipelined.dev/modular/wav"
)

// ErrSampleRate is returned when the clip carries no rate.
var ErrSampleRate = errors.New("zero sample rate")

// Encoder defaults.
const (
	DefaultBitRate = 192
	DefaultQuality = 2
)

const chunkFrames = 1024

// Encode writes the clip as joint stereo mp3. Quality follows lame:
// 0 is best, 9 the fastest.
func Encode(w io.Writer, clip *wav.Clip, bitRate, quality int) error {
	if clip.Rate() == 0 {
		return ErrSampleRate
	}
	wr := lame.NewWriter(w)
	wr.Encoder.SetBitrate(bitRate)
	wr.Encoder.SetQuality(quality)
	wr.Encoder.SetNumChannels(2)
	wr.Encoder.SetInSamplerate(int(clip.Rate()))
	wr.Encoder.SetMode(lame.JOINT_STEREO)
	wr.Encoder.SetVBR(lame.VBR_RH)
	wr.Encoder.InitParams()

	frames := clip.Frames()
	for start := 0; start < len(frames); start += chunkFrames {
		end := start + chunkFrames
		if end > len(frames) {
			end = len(frames)
		}
		buf := new(bytes.Buffer)
		for _, v := range signal.AsInts(frames[start:end], signal.BitDepth16) {
			if err := binary.Write(buf, binary.LittleEndian, int16(v)); err != nil {
				return err
			}
		}
		if _, err := wr.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("mp3 encode: %w", err)
		}
	}
	return wr.Close()
}

// Save encodes the clip into the file at path.
func Save(path string, clip *wav.Clip, bitRate, quality int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(file, clip, bitRate, quality); err != nil {
		file.Close()
		return fmt.Errorf("save %q: %w", path, err)
	}
	return file.Close()
}
