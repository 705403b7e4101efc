package resample

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRate indicates a non-positive input or output sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

const (
	defaultTapsPerPhase = 32
	defaultCutoffScale  = 0.92
	defaultKaiserBeta   = 7.5
)

type config struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the anti-aliasing filter.
type Option func(*config)

// WithTapsPerPhase sets the filter length per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tapsPerPhase = n
		}
	}
}

// WithCutoffScale scales the cutoff relative to the lower Nyquist frequency.
// Values outside (0, 1] are ignored.
func WithCutoffScale(v float64) Option {
	return func(c *config) {
		if v > 0 && v <= 1 {
			c.cutoffScale = v
		}
	}
}

// WithKaiserBeta sets the Kaiser window shape.
func WithKaiserBeta(beta float64) Option {
	return func(c *config) {
		if beta >= 0 {
			c.kaiserBeta = beta
		}
	}
}

// Converter performs rational sample-rate conversion of complete buffers.
type Converter struct {
	up, down int
	delay    int
	phases   [][]float64
}

// NewForRates creates a converter from inRate to outRate.
func NewForRates(inRate, outRate int, opts ...Option) (*Converter, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, ErrInvalidRate
	}
	cfg := config{
		tapsPerPhase: defaultTapsPerPhase,
		cutoffScale:  defaultCutoffScale,
		kaiserBeta:   defaultKaiserBeta,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	g := gcd(inRate, outRate)
	c := &Converter{up: outRate / g, down: inRate / g}
	if c.up == c.down {
		return c, nil
	}

	taps := design(c.up, c.down, cfg)
	c.delay = (len(taps) - 1) / 2
	c.phases = make([][]float64, c.up)
	for p := range c.phases {
		phase := make([]float64, 0, cfg.tapsPerPhase+1)
		for k := p; k < len(taps); k += c.up {
			phase = append(phase, taps[k])
		}
		c.phases[p] = phase
	}
	return c, nil
}

// Convert is a one-shot helper around NewForRates and Converter.Convert.
func Convert(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	c, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}
	return c.Convert(input), nil
}

// Ratio returns the reduced up/down factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// OutputLen returns ceil(n*up/down), the length Convert produces for n input
// samples.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*c.up + c.down - 1) / c.down
}

// Convert resamples input into a new buffer. Equal rates return a copy.
func (c *Converter) Convert(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	if c.up == c.down {
		return core.Clone(input)
	}

	out := make([]float64, c.OutputLen(len(input)))
	for j := range out {
		t := j*c.down + c.delay
		p := t % c.up
		base := (t - p) / c.up
		var y float64
		for l, h := range c.phases[p] {
			i := base - l
			if i < 0 {
				break
			}
			if i < len(input) {
				y += h * input[i]
			}
		}
		out[j] = y
	}
	return out
}

// design returns the prototype lowpass at the upsampled rate, normalised to a
// DC gain of up so that zero stuffing keeps unity gain.
func design(up, down int, cfg config) []float64 {
	// Odd length keeps the group delay on an integer sample.
	n := cfg.tapsPerPhase*up + 1
	fc := 0.5 / float64(max(up, down)) * cfg.cutoffScale
	center := 0.5 * float64(n-1)

	taps := make([]float64, n)
	for i := range taps {
		taps[i] = 2 * fc * sinc(2*fc*(float64(i)-center))
	}
	window.Apply(window.TypeKaiser, taps, window.WithBeta(cfg.kaiserBeta))
	if sum := floats.Sum(taps); sum != 0 {
		vecmath.ScaleBlockInPlace(taps, float64(up)/sum)
	}
	return taps
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
