package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"pipelined.dev/modular/beep"
	"pipelined.dev/modular/log"
	"pipelined.dev/modular/nats"
	"pipelined.dev/modular/portaudio"
)

type playCommand struct {
	patchFlags
	duration time.Duration
	driver   string
	buffer   int
	natsURL  string
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play a patch through the sound device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	cmd.patchFlags.register(fs)
	fs.DurationVar(&cmd.duration, "duration", 0, "how long to play, 0 plays until interrupted")
	fs.StringVar(&cmd.driver, "driver", "portaudio", "playback driver: portaudio or beep")
	fs.IntVar(&cmd.buffer, "buffer", 512, "portaudio buffer size in frames")
	fs.StringVar(&cmd.natsURL, "nats", "", "NATS server url for live control, empty disables")
}

func (cmd *playCommand) Run() error {
	logger := log.GetLogger()
	patch, err := cmd.build(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cmd.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.duration)
		defer cancel()
	}

	if cmd.natsURL != "" {
		control, err := nats.Connect(cmd.natsURL, patch, nats.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("connect control: %w", err)
		}
		defer control.Close()
	}

	switch cmd.driver {
	case "portaudio":
		player := portaudio.NewPlayer(patch, portaudio.WithBufferSize(cmd.buffer), portaudio.WithLogger(logger))
		return player.Play(ctx)
	case "beep":
		return beep.NewPlayer(patch).Play(ctx)
	}
	return fmt.Errorf("unknown driver %q", cmd.driver)
}
