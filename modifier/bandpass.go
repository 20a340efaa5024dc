package modifier

import (
	"math"

	"pipelined.dev/modular"
)

// BandPass is a second order band pass filter defined by its central
// frequency and quality factor. Filter state is kept per channel.
type BandPass struct {
	modular.Table
	rate    modular.SampleRate
	freq    float64
	quality float64

	a0, b1, b2     float64
	x1, x2, y1, y2 modular.Frame
}

// NewBandPass returns a band pass filter centred on freq with the
// provided quality factor.
func NewBandPass(rate modular.SampleRate, freq, quality float64) (*BandPass, error) {
	if rate == 0 {
		return nil, ErrSampleRate
	}
	b := &BandPass{rate: rate, freq: freq, quality: quality}
	b.reset()
	b.Register("SetFrequency", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		b.freq = v
		b.reset()
		return nil
	})
	b.Register("GetFrequency", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = b.freq
		return nil
	})
	b.Register("SetQuality", func(args []interface{}) error {
		v, err := modular.Float(args, 0)
		if err != nil {
			return err
		}
		b.quality = v
		b.reset()
		return nil
	})
	b.Register("GetQuality", func(args []interface{}) error {
		out, err := modular.FloatPtr(args, 0)
		if err != nil {
			return err
		}
		*out = b.quality
		return nil
	})
	return b, nil
}

// NewBandPassCorners returns a band pass filter spanning the two
// corner frequencies.
func NewBandPassCorners(rate modular.SampleRate, f0, f1 float64) (*BandPass, error) {
	freq := math.Sqrt(math.Abs(f0 * f1))
	quality := freq / math.Abs(f1-f0)
	return NewBandPass(rate, freq, quality)
}

// reset derives the filter coefficients from the central frequency
// and quality. The corner frequencies are the roots of
// x^2 - (f/Q)x - f^2.
func (b *BandPass) reset() {
	qb := -b.freq / b.quality
	qc := -b.freq * b.freq
	root := math.Sqrt(qb*qb - 4*qc)

	fl := (-qb + root) / 2
	if fl <= 0 {
		fl = (-qb - root) / 2
	}
	fh := fl + qb

	thetaL := math.Tan(math.Pi * fl / float64(b.rate))
	thetaH := math.Tan(math.Pi * fh / float64(b.rate))
	al := 1 / (1 + thetaL)
	ah := 1 / (1 + thetaH)
	bl := (1 - thetaL) / (1 + thetaL)
	bh := (1 - thetaH) / (1 + thetaH)

	b.a0 = (1 - al) * ah
	b.b1 = bl + bh
	b.b2 = bl * bh
}

// Modify filters f.
func (b *BandPass) Modify(f modular.Frame) modular.Frame {
	y := modular.Frame{
		Left:  b.a0*(f.Left-b.x2.Left) + b.b1*b.y1.Left - b.b2*b.y2.Left,
		Right: b.a0*(f.Right-b.x2.Right) + b.b1*b.y1.Right - b.b2*b.y2.Right,
	}
	b.y2 = b.y1
	b.y1 = y
	b.x2 = b.x1
	b.x1 = f
	return y
}
