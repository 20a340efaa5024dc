package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"pipelined.dev/modular"
	"pipelined.dev/modular/generator"
	"pipelined.dev/modular/log"
	"pipelined.dev/modular/modifier"
	"pipelined.dev/modular/resample"
	"pipelined.dev/modular/vocoder"
	"pipelined.dev/modular/wav"
)

// patchFlags are the graph flags shared by render and play.
type patchFlags struct {
	kind  string
	freq  float64
	in    string
	bands int
	echo  time.Duration
	rate  uint
}

func (pf *patchFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&pf.kind, "patch", "sine", "patch to build: sine, square, triangle, sawtooth, noise, sample, vocoder")
	fs.Float64Var(&pf.freq, "freq", 440, "oscillator frequency in Hz")
	fs.StringVar(&pf.in, "in", "", "input wav file: sample data or vocoder modulator")
	fs.IntVar(&pf.bands, "bands", 4, "vocoder band count")
	fs.DurationVar(&pf.echo, "echo", 0, "echo delay, 0 disables")
	fs.UintVar(&pf.rate, "rate", uint(modular.DefaultSampleRate), "sample rate in Hz")
}

// build assembles the requested patch. The source node feeds an echo
// node when an echo delay was asked for, otherwise it is the output
// itself.
func (pf *patchFlags) build(logger log.Logger) (*modular.Patch, error) {
	rate := modular.SampleRate(pf.rate)
	var (
		gen modular.Generator
		err error
	)
	switch pf.kind {
	case "sine":
		gen, err = generator.NewSine(rate, pf.freq)
	case "square":
		gen, err = generator.NewSquare(rate, pf.freq)
	case "triangle":
		gen, err = generator.NewTriangle(rate, pf.freq)
	case "sawtooth":
		gen, err = generator.NewSawtooth(rate, pf.freq)
	case "noise":
		gen = generator.NewNoise()
	case "sample":
		gen, err = pf.sampler(rate, logger)
	case "vocoder":
		var source modular.Generator
		source, err = pf.modulator(rate, logger)
		if err == nil {
			gen, err = vocoder.New(rate, source, pf.bands)
		}
	default:
		return nil, fmt.Errorf("unknown patch %q", pf.kind)
	}
	if err != nil {
		return nil, err
	}

	patch := modular.NewPatch(rate)
	src := modular.NewNode(modular.WithGenerator(gen))
	if pf.echo <= 0 {
		patch.AddNode(src, 0, true)
		return patch, nil
	}
	echo, err := modifier.NewEcho(rate, pf.echo, 0.5)
	if err != nil {
		return nil, err
	}
	echoNode := modular.NewNode(modular.WithModifier(echo))
	src.AddTarget(echoNode)
	patch.AddNode(src, 0, false)
	patch.AddNode(echoNode, 1, true)
	return patch, nil
}

// sampler loads the input wav into a looping sampler. A failed load is
// reported once and leaves the sampler silent.
func (pf *patchFlags) sampler(rate modular.SampleRate, logger log.Logger) (modular.Generator, error) {
	if pf.in == "" {
		return nil, errors.New("sample patch needs -in")
	}
	clip, err := wav.Load(pf.in)
	if err != nil {
		logger.Warn("sample input unavailable, playing silence: ", err)
		return generator.NewSampler(nil, rate, rate)
	}
	frames := clip.Frames()
	if len(frames) == 0 {
		return generator.NewSampler(nil, rate, rate)
	}
	return generator.NewSampler(frames, clip.Rate(), rate, resample.WithLoop(0, uint64(len(frames))))
}

// modulator picks the vocoder input: the wav file when provided, a
// sine at the oscillator frequency otherwise.
func (pf *patchFlags) modulator(rate modular.SampleRate, logger log.Logger) (modular.Generator, error) {
	if pf.in != "" {
		return pf.sampler(rate, logger)
	}
	return generator.NewSine(rate, pf.freq)
}
