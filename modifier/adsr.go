package modifier

import (
	"math"
	"time"

	"pipelined.dev/modular"
	"pipelined.dev/modular/signal"
)

type adsrState int

const (
	stateAttack adsrState = iota
	stateDecay
	stateSustain
	stateRelease
	stateStopped
)

// ADSR shapes the level of its input with an attack, decay, sustain,
// release envelope. The envelope starts in the attack state and holds
// the sustain level until Release is called, either directly or
// through the method table.
type ADSR struct {
	modular.Table
	state   adsrState
	gain    float64
	attack  float64
	decay   float64
	sustain float64
	release float64
}

// NewADSR returns an envelope with the provided segment lengths. Every
// segment must last at least one frame. The sustain level is in
// decibels and values above 0 dB are clamped.
func NewADSR(rate modular.SampleRate, attack, decay time.Duration, sustainDB float64, release time.Duration) (*ADSR, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	for _, d := range []time.Duration{attack, decay, release} {
		if signal.FrameCount(rate, d) < 1 {
			return nil, ErrDuration
		}
	}
	if sustainDB > 0 {
		sustainDB = 0
	}
	sustain := dbToLinear(sustainDB)
	a := &ADSR{
		attack:  1 / (attack.Seconds() * float64(rate)),
		decay:   (sustain - 1) / (decay.Seconds() * float64(rate)),
		sustain: sustain,
		release: -sustain / (release.Seconds() * float64(rate)),
	}
	a.Register("Release", func([]interface{}) error {
		a.Release()
		return nil
	})
	return a, nil
}

// Release moves the envelope into its release state.
func (a *ADSR) Release() {
	a.state = stateRelease
}

// Modify scales f by the current envelope level and advances the
// envelope by one frame.
func (a *ADSR) Modify(f modular.Frame) modular.Frame {
	switch a.state {
	case stateAttack:
		a.gain += a.attack
		if a.gain >= 1 {
			a.gain = 1
			a.state = stateDecay
		}
	case stateDecay:
		a.gain += a.decay
		if a.gain <= a.sustain {
			a.gain = a.sustain
			a.state = stateSustain
		}
	case stateSustain:
	case stateRelease:
		a.gain += a.release
		if a.gain <= 0 {
			a.gain = 0
			a.state = stateStopped
		}
	case stateStopped:
		return modular.Frame{}
	}
	return f.Scale(a.gain)
}

// dbToLinear converts a decibel value to a linear gain factor.
func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
