package mel

import (
	"fmt"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultFFTSize = 2048
	defaultNumMels = 128
)

type config struct {
	sampleRate float64
	fftSize    int
	hopLength  int
	numMels    int
	fMin       float64
	fMax       float64
	window     window.Type
}

func defaultConfig() config {
	return config{
		sampleRate: core.DefaultSampleRate,
		fftSize:    defaultFFTSize,
		hopLength:  core.DefaultHopLength,
		numMels:    defaultNumMels,
		window:     window.TypeHann,
	}
}

// Option configures spectrogram extraction.
type Option func(*config)

// WithSampleRate sets the input sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) {
		if core.IsFinitePositive(sampleRate) {
			c.sampleRate = sampleRate
		}
	}
}

// WithFFTSize sets the FFT (and window) length.
func WithFFTSize(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.fftSize = n
		}
	}
}

// WithHopLength sets the number of samples between frame starts.
func WithHopLength(hop int) Option {
	return func(c *config) {
		if hop > 0 {
			c.hopLength = hop
		}
	}
}

// WithMels sets the number of mel bands.
func WithMels(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.numMels = n
		}
	}
}

// WithFrequencyRange limits the filterbank to [fMin, fMax] Hz. A zero fMax
// means the Nyquist frequency.
func WithFrequencyRange(fMin, fMax float64) Option {
	return func(c *config) {
		c.fMin = fMin
		c.fMax = fMax
	}
}

// WithWindow selects the analysis window. The periodic form is always used.
func WithWindow(t window.Type) Option {
	return func(c *config) { c.window = t }
}

// Extractor computes mel power spectrograms with a fixed configuration. The
// FFT plan, window and filterbank are built once. An Extractor is not safe
// for concurrent use.
type Extractor struct {
	cfg    config
	plan   *algofft.Plan[complex128]
	window []float64
	bank   *mat.Dense

	samples []float64
	frame   []complex128
	spec    []complex128
	re      []float64
	im      []float64
	power   []float64
}

// NewExtractor builds an Extractor.
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.fMax == 0 {
		cfg.fMax = cfg.sampleRate / 2
	}

	bank, err := FilterBank(cfg.numMels, cfg.fftSize, cfg.sampleRate, cfg.fMin, cfg.fMax)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("mel init fft plan: %w", err)
	}

	bins := cfg.fftSize/2 + 1
	return &Extractor{
		cfg:     cfg,
		plan:    plan,
		window:  window.Generate(cfg.window, cfg.fftSize, window.WithPeriodic()),
		bank:    bank,
		samples: make([]float64, cfg.fftSize),
		frame:   make([]complex128, cfg.fftSize),
		spec:    make([]complex128, cfg.fftSize),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		power:   make([]float64, bins),
	}, nil
}

// Spectrogram computes a mel power spectrogram of sample with a one-off
// Extractor.
func Spectrogram(sample []float64, opts ...Option) (*mat.Dense, error) {
	e, err := NewExtractor(opts...)
	if err != nil {
		return nil, err
	}
	return e.Extract(sample)
}

// NumMels returns the number of mel bands (output rows).
func (e *Extractor) NumMels() int { return e.cfg.numMels }

// HopLength returns the hop length in samples.
func (e *Extractor) HopLength() int { return e.cfg.hopLength }

// FFTSize returns the FFT length.
func (e *Extractor) FFTSize() int { return e.cfg.fftSize }

// Frames returns the number of frames Extract yields for n input samples.
func (e *Extractor) Frames(n int) int {
	return 1 + n/e.cfg.hopLength
}

// Extract returns the numMels × frames mel power spectrogram of sample.
func (e *Extractor) Extract(sample []float64) (*mat.Dense, error) {
	if len(sample) == 0 {
		return nil, fmt.Errorf("mel spectrogram of empty sample")
	}

	power, err := e.powerSpectrogram(sample)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(e.cfg.numMels, power.RawMatrix().Cols, nil)
	out.Mul(e.bank, power)
	return out, nil
}

// powerSpectrogram returns the bins × frames STFT power matrix.
func (e *Extractor) powerSpectrogram(sample []float64) (*mat.Dense, error) {
	n := e.cfg.fftSize
	pad := n / 2
	frames := e.Frames(len(sample))
	bins := n/2 + 1

	power := mat.NewDense(bins, frames, nil)
	for t := 0; t < frames; t++ {
		start := t*e.cfg.hopLength - pad
		for i := range e.samples {
			e.samples[i] = reflectAt(sample, start+i)
		}
		vecmath.MulBlockInPlace(e.samples, e.window)
		for i, v := range e.samples {
			e.frame[i] = complex(v, 0)
		}

		if err := e.plan.Forward(e.spec, e.frame); err != nil {
			return nil, fmt.Errorf("mel fft frame %d: %w", t, err)
		}

		for k := 0; k < bins; k++ {
			e.re[k] = real(e.spec[k])
			e.im[k] = imag(e.spec[k])
		}
		vecmath.Power(e.power, e.re, e.im)
		power.SetCol(t, e.power)
	}
	return power, nil
}

// reflectAt indexes x as if it were extended by mirror reflection about its
// first and last samples (the edge samples are not repeated).
func reflectAt(x []float64, idx int) float64 {
	n := len(x)
	if n == 1 {
		return x[0]
	}
	period := 2 * (n - 1)
	idx %= period
	if idx < 0 {
		idx += period
	}
	if idx >= n {
		idx = period - idx
	}
	return x[idx]
}
