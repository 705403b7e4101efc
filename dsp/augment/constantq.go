package augment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/interp"
	"github.com/cwbudde/algo-augment/dsp/mel"
	"github.com/cwbudde/algo-augment/dsp/tensor"
	"github.com/cwbudde/algo-augment/dsp/window"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultConstantQSize    = 128
	defaultConstantQMels    = 512
	defaultConstantQFFT     = 2048
	defaultConstantQFrames  = 130
	constantQLinearMinHz    = 20.0
	constantQLogStartDecade = 1.7
	constantQLogStopDecade  = 4.04

	// ConstantQChannels is the fixed number of frequency bands in the output.
	ConstantQChannels = 4
)

type constantQConfig struct {
	proc   core.ProcessorConfig
	mels   int
	fft    int
	frames int
	window window.Type
}

// ConstantQOption configures [ToConstantQ].
type ConstantQOption func(*constantQConfig)

// WithProcessor applies shared processor options (sample rate, hop length).
func WithProcessor(opts ...core.ProcessorOption) ConstantQOption {
	return func(c *constantQConfig) {
		for _, opt := range opts {
			if opt != nil {
				opt(&c.proc)
			}
		}
	}
}

// WithMelBands sets the number of mel bands split into channels.
func WithMelBands(n int) ConstantQOption {
	return func(c *constantQConfig) { c.mels = n }
}

// WithFFTSize sets the spectrogram FFT length.
func WithFFTSize(n int) ConstantQOption {
	return func(c *constantQConfig) { c.fft = n }
}

// WithFrames sets how many leading frames are rescaled onto the log
// frequency axis. Shorter spectrograms are rejected.
func WithFrames(n int) ConstantQOption {
	return func(c *constantQConfig) { c.frames = n }
}

// WithWindow selects the spectrogram analysis window. Hann is the default.
func WithWindow(t window.Type) ConstantQOption {
	return func(c *constantQConfig) { c.window = t }
}

// ToConstantQ converts a sample into a channels × height × width tensor.
//
// The mel power spectrogram is taken to dB relative to its peak. Each of the
// leading frames is resampled from a linear frequency axis (20 Hz to
// Nyquist) onto a logarithmic one (10^1.7 to 10^4.04 Hz), and the whole
// matrix is min-max quantised to 8 bits. The mel rows are then cut into
// ConstantQChannels equal bands of melBands/4 rows (rows past the last full
// band are dropped); each band is resized to height × width and mapped to
// [-1, 1].
type ToConstantQ struct {
	height, width int
	bandRows      int
	cfg           constantQConfig

	linAxis []float64
	logAxis []float64

	extractors sync.Pool
}

// NewToConstantQ builds the transform. The output is always
// ConstantQChannels × height × width.
func NewToConstantQ(height, width int, opts ...ConstantQOption) (*ToConstantQ, error) {
	cfg := constantQConfig{
		proc:   core.DefaultProcessorConfig(),
		mels:   defaultConstantQMels,
		fft:    defaultConstantQFFT,
		frames: defaultConstantQFrames,
		window: window.TypeHann,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: constant-Q size must be positive: %dx%d", ErrInvalidArgument, height, width)
	}
	if cfg.mels < ConstantQChannels || cfg.frames <= 0 || cfg.fft < 2 {
		return nil, fmt.Errorf("%w: constant-Q needs >= %d mel bands, > 0 frames and fft >= 2: mels=%d frames=%d fft=%d",
			ErrInvalidArgument, ConstantQChannels, cfg.mels, cfg.frames, cfg.fft)
	}

	melOpts := []mel.Option{
		mel.WithSampleRate(cfg.proc.SampleRate),
		mel.WithHopLength(cfg.proc.HopLength),
		mel.WithFFTSize(cfg.fft),
		mel.WithMels(cfg.mels),
		mel.WithWindow(cfg.window),
	}
	first, err := mel.NewExtractor(melOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	nyquist := float64(int(cfg.proc.SampleRate) / 2)
	linAxis, err := interp.Linspace(constantQLinearMinHz, nyquist, cfg.mels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	logAxis, err := interp.Logspace(constantQLogStartDecade, constantQLogStopDecade, cfg.mels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	t := &ToConstantQ{
		height:   height,
		width:    width,
		bandRows: cfg.mels / ConstantQChannels,
		cfg:      cfg,
		linAxis:  linAxis,
		logAxis:  logAxis,
	}
	t.extractors.New = func() any {
		e, err := mel.NewExtractor(melOpts...)
		if err != nil {
			// Options were validated by the first extractor.
			panic(err)
		}
		return e
	}
	t.extractors.Put(first)
	return t, nil
}

// Size returns (height, width) of each channel.
func (t *ToConstantQ) Size() (int, int) { return t.height, t.width }

// Channels returns the number of output channels.
func (t *ToConstantQ) Channels() int { return ConstantQChannels }

// BandRows returns how many mel rows feed each channel.
func (t *ToConstantQ) BandRows() int { return t.bandRows }

// MinSamples returns the shortest input Apply accepts.
func (t *ToConstantQ) MinSamples() int {
	return (t.cfg.frames - 1) * t.cfg.proc.HopLength
}

// Apply computes the tensor for audio. audio is not modified.
func (t *ToConstantQ) Apply(audio []float64) (*tensor.Tensor, error) {
	e := t.extractors.Get().(*mel.Extractor)
	defer t.extractors.Put(e)

	if frames := e.Frames(len(audio)); frames < t.cfg.frames {
		return nil, fmt.Errorf("%w: constant-Q needs %d spectrogram frames, got %d (%d samples)",
			ErrOutOfRange, t.cfg.frames, frames, len(audio))
	}

	power, err := e.Extract(audio)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	levels, err := t.norm(power)
	if err != nil {
		return nil, err
	}

	out, err := tensor.New(ConstantQChannels, t.height, t.width)
	if err != nil {
		return nil, err
	}
	_, cols := levels.Dims()
	for c := 0; c < ConstantQChannels; c++ {
		band := levels.Slice(c*t.bandRows, (c+1)*t.bandRows, 0, cols)

		img, err := tensor.Resize(tensor.Gray(band), t.width, t.height)
		if err != nil {
			return nil, fmt.Errorf("%w: channel %d: %w", ErrShapeMismatch, c, err)
		}
		ch := tensor.ToTensor(img)
		if err := tensor.Normalize(ch, 0.5, 0.5); err != nil {
			return nil, err
		}
		if err := out.SetChannel(c, ch); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
		}
	}
	return out, nil
}

// norm converts power to dB, rescales the leading frames onto the log
// frequency axis and quantises the result to [0, 255].
func (t *ToConstantQ) norm(power *mat.Dense) (*mat.Dense, error) {
	db, err := mel.PowerToDB(power, mel.DefaultAmin, mel.DefaultTopDB)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	rows, cols := db.Dims()
	if cols < t.cfg.frames {
		return nil, fmt.Errorf("%w: %d frames, need %d", ErrOutOfRange, cols, t.cfg.frames)
	}

	column := make([]float64, rows)
	rescaled := make([]float64, rows)
	for j := 0; j < t.cfg.frames; j++ {
		mat.Col(column, j, db)
		lin, err := interp.NewLinear(t.linAxis, column)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ErrShapeMismatch, j, err)
		}
		if _, err := lin.Eval(rescaled, t.logAxis); err != nil {
			if errors.Is(err, interp.ErrOutOfBounds) {
				return nil, fmt.Errorf("%w: frame %d: %w", ErrOutOfRange, j, err)
			}
			return nil, err
		}
		db.SetCol(j, rescaled)
	}

	lo, hi := mat.Min(db), mat.Max(db)
	span := hi - lo
	db.Apply(func(_, _ int, v float64) float64 {
		if span <= 0 {
			return 0
		}
		return (v - lo) / span * 255
	}, db)
	return db, nil
}
