package main

import (
	"errors"
	"flag"
	"path/filepath"
	"strings"
	"time"

	"pipelined.dev/modular"
	"pipelined.dev/modular/log"
	"pipelined.dev/modular/metric"
	"pipelined.dev/modular/mp3"
	"pipelined.dev/modular/signal"
	"pipelined.dev/modular/wav"
)

type renderCommand struct {
	patchFlags
	out      string
	duration time.Duration
	depth    int
	bitRate  int
	quality  int
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render a patch into a wav or mp3 file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	cmd.patchFlags.register(fs)
	fs.StringVar(&cmd.out, "out", "", "output file, .wav or .mp3 (required)")
	fs.DurationVar(&cmd.duration, "duration", 5*time.Second, "length of audio to render")
	fs.IntVar(&cmd.depth, "depth", 16, "wav bit depth")
	fs.IntVar(&cmd.bitRate, "bitrate", mp3.DefaultBitRate, "mp3 bit rate")
	fs.IntVar(&cmd.quality, "quality", mp3.DefaultQuality, "mp3 encoder quality, 0 best")
}

func (cmd *renderCommand) Validate() error {
	var message string
	if cmd.out == "" {
		message += "Missing -out required flag\n"
	} else {
		switch strings.ToLower(filepath.Ext(cmd.out)) {
		case ".wav", ".mp3":
		default:
			message += "Output must end in .wav or .mp3\n"
		}
	}
	if cmd.duration <= 0 {
		message += "Duration must be positive\n"
	}
	if message != "" {
		return errors.New(message)
	}
	return nil
}

func (cmd *renderCommand) Run() error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	logger := log.GetLogger()
	patch, err := cmd.build(logger)
	if err != nil {
		return err
	}

	rate := patch.Rate()
	frames := make([]modular.Frame, signal.FrameCount(rate, cmd.duration))
	measure := metric.Meter(cmd, rate)
	start := time.Now()
	patch.Fill(frames)
	measure(int64(len(frames)))
	logger.Info("rendered ", len(frames), " frames in ", time.Since(start))

	clip := wav.NewClip(rate, frames)
	if strings.ToLower(filepath.Ext(cmd.out)) == ".wav" {
		return wav.Save(cmd.out, clip, signal.BitDepth(cmd.depth))
	}
	return mp3.Save(cmd.out, clip, cmd.bitRate, cmd.quality)
}
