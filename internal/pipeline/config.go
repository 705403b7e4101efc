// Package pipeline loads a YAML description of an augmentation chain and
// builds the corresponding transforms.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-augment/dsp/augment"
	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/pitch"
	"github.com/cwbudde/algo-augment/dsp/stretch"
	"github.com/cwbudde/algo-augment/dsp/window"
	"gopkg.in/yaml.v3"
)

// Kind names a transform type in a pipeline file.
type Kind string

const (
	KindCrop        Kind = "crop"
	KindRandomCrop  Kind = "random_crop"
	KindMask        Kind = "mask"
	KindTimeStretch Kind = "time_stretch"
	KindPitchShift  Kind = "pitch_shift"
)

// IsValid reports whether k is a known transform type.
func (k Kind) IsValid() bool {
	switch k {
	case KindCrop, KindRandomCrop, KindMask, KindTimeStretch, KindPitchShift:
		return true
	}
	return false
}

// Step configures one transform. Only the fields relevant to Type are read.
// Pointer fields distinguish "unset" (use the default) from zero.
type Step struct {
	Type Kind `yaml:"type"`

	// crop, random_crop
	Length *int `yaml:"length,omitempty"`
	Start  int  `yaml:"start,omitempty"`

	// time_stretch: either a random width or a fixed rate
	RateWidth *float64 `yaml:"rate_width,omitempty"`
	Rate      *float64 `yaml:"rate,omitempty"`

	// pitch_shift: either a random width or fixed semitone steps
	StepWidth *float64 `yaml:"step_width,omitempty"`
	Steps     *int     `yaml:"steps,omitempty"`

	// mask
	MaskRate *float64 `yaml:"mask_rate,omitempty"`
}

// ConstantQ configures the spectrogram tensor stage.
type ConstantQ struct {
	Height   int    `yaml:"height"`
	Width    int    `yaml:"width"`
	MelBands int    `yaml:"mel_bands,omitempty"`
	Frames   int    `yaml:"frames,omitempty"`
	Window   string `yaml:"window,omitempty"`
}

// Config is the root of a pipeline file.
type Config struct {
	Seed       uint64     `yaml:"seed"`
	SampleRate int        `yaml:"sample_rate,omitempty"`
	HopLength  int        `yaml:"hop_length,omitempty"`
	Transforms []Step     `yaml:"transforms"`
	ConstantQ  *ConstantQ `yaml:"constant_q,omitempty"`
}

// ProcessorOptions returns the shared DSP settings of cfg.
func (cfg *Config) ProcessorOptions() []core.ProcessorOption {
	opts := []core.ProcessorOption{core.WithSeed(cfg.Seed)}
	if cfg.SampleRate > 0 {
		opts = append(opts, core.WithSampleRate(float64(cfg.SampleRate)))
	}
	if cfg.HopLength > 0 {
		opts = append(opts, core.WithHopLength(cfg.HopLength))
	}
	return opts
}

// Load reads and validates the pipeline file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("pipeline: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a pipeline from r and validates it. Unknown keys are
// rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("pipeline: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns all problems found in cfg joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("sample_rate %d must be >= 0", cfg.SampleRate))
	}
	if cfg.HopLength < 0 {
		errs = append(errs, fmt.Errorf("hop_length %d must be >= 0", cfg.HopLength))
	}

	for i, s := range cfg.Transforms {
		prefix := fmt.Sprintf("transforms[%d]", i)
		if !s.Type.IsValid() {
			errs = append(errs, fmt.Errorf("%s.type %q is invalid; valid values: crop, random_crop, mask, time_stretch, pitch_shift", prefix, s.Type))
			continue
		}
		errs = append(errs, validateStep(prefix, s)...)
	}

	if q := cfg.ConstantQ; q != nil {
		if q.Height <= 0 || q.Width <= 0 {
			errs = append(errs, fmt.Errorf("constant_q size %dx%d must be positive", q.Height, q.Width))
		}
		if q.MelBands < 0 || q.Frames < 0 {
			errs = append(errs, fmt.Errorf("constant_q mel_bands and frames must be >= 0"))
		}
		if q.MelBands > 0 && q.MelBands < augment.ConstantQChannels {
			errs = append(errs, fmt.Errorf("constant_q mel_bands %d must be >= %d", q.MelBands, augment.ConstantQChannels))
		}
		if q.Window != "" {
			if _, err := window.Parse(q.Window); err != nil {
				errs = append(errs, fmt.Errorf("constant_q.window: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}

func validateStep(prefix string, s Step) []error {
	var errs []error
	switch s.Type {
	case KindCrop, KindRandomCrop:
		if s.Length == nil {
			errs = append(errs, fmt.Errorf("%s.length is required for %s", prefix, s.Type))
		} else if *s.Length < 0 {
			errs = append(errs, fmt.Errorf("%s.length %d must be >= 0", prefix, *s.Length))
		}
		if s.Type == KindCrop && s.Start < 0 {
			errs = append(errs, fmt.Errorf("%s.start %d must be >= 0", prefix, s.Start))
		}
	case KindMask:
		if s.MaskRate != nil && !(*s.MaskRate >= 0 && *s.MaskRate < 1) {
			errs = append(errs, fmt.Errorf("%s.mask_rate %.3f is out of range [0, 1)", prefix, *s.MaskRate))
		}
	case KindTimeStretch:
		if s.RateWidth != nil && s.Rate != nil {
			errs = append(errs, fmt.Errorf("%s: rate_width and rate are mutually exclusive", prefix))
		}
		if s.RateWidth != nil && !(*s.RateWidth >= 0 && *s.RateWidth <= augment.MaxRateWidth) {
			errs = append(errs, fmt.Errorf("%s.rate_width %.3f is out of range [0, %.2f]", prefix, *s.RateWidth, augment.MaxRateWidth))
		}
		if s.Rate != nil && !(*s.Rate >= stretch.MinRate && *s.Rate <= stretch.MaxRate) {
			errs = append(errs, fmt.Errorf("%s.rate %.3f is out of range [%.2f, %.0f]", prefix, *s.Rate, stretch.MinRate, stretch.MaxRate))
		}
	case KindPitchShift:
		if s.StepWidth != nil && s.Steps != nil {
			errs = append(errs, fmt.Errorf("%s: step_width and steps are mutually exclusive", prefix))
		}
		if s.StepWidth != nil && !(*s.StepWidth >= 0 && *s.StepWidth <= augment.MaxStepWidth) {
			errs = append(errs, fmt.Errorf("%s.step_width %.3f is out of range [0, %d]", prefix, *s.StepWidth, augment.MaxStepWidth))
		}
		if s.Steps != nil && (*s.Steps < -pitch.MaxSemitones || *s.Steps > pitch.MaxSemitones) {
			errs = append(errs, fmt.Errorf("%s.steps %d is out of range [-%d, %d]", prefix, *s.Steps, pitch.MaxSemitones, pitch.MaxSemitones))
		}
	}
	return errs
}
