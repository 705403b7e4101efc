package augment

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/stretch"
)

// DefaultRateWidth gives stretch rates in [0.9, 1.1].
const DefaultRateWidth = 0.2

// MaxRateWidth keeps the slowest drawable rate at stretch.MinRate.
const MaxRateWidth = 2 * (1 - stretch.MinRate)

// TimeStretch changes tempo without changing pitch, then restores the input
// length. The rate is drawn once, uniformly from
// [1-width/2, 1+width/2].
//
// Speeding up (rate > 1) shortens the material; the deficit is filled by
// repeating the stretched output from its start. Slowing down truncates.
type TimeStretch struct {
	rate      float64
	stretcher *stretch.Stretcher
}

// TimeStreach is the historical name of [TimeStretch].
//
// Deprecated: use TimeStretch.
type TimeStreach = TimeStretch

// NewTimeStretch draws a rate from rng. rateWidth must lie in
// [0, MaxRateWidth] so every drawn rate is one the stretcher supports.
func NewTimeStretch(rng *rand.Rand, rateWidth float64, opts ...core.ProcessorOption) (*TimeStretch, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: time stretch needs a generator", ErrInvalidArgument)
	}
	if !(rateWidth >= 0 && rateWidth <= MaxRateWidth) {
		return nil, fmt.Errorf("%w: time stretch rate width must be in [0, %.2f]: %f", ErrInvalidArgument, MaxRateWidth, rateWidth)
	}
	cfg := core.ApplyProcessorOptions(opts...)

	st, err := stretch.New(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return &TimeStretch{
		rate:      uniform(rng, 1-rateWidth/2, 1+rateWidth/2),
		stretcher: st,
	}, nil
}

// NewTimeStretchRate builds a TimeStretch with a fixed rate in
// [stretch.MinRate, stretch.MaxRate].
func NewTimeStretchRate(rate float64, opts ...core.ProcessorOption) (*TimeStretch, error) {
	if !core.IsFinitePositive(rate) || rate < stretch.MinRate || rate > stretch.MaxRate {
		return nil, fmt.Errorf("%w: time stretch rate must be in [%.2f, %.0f]: %f",
			ErrInvalidArgument, stretch.MinRate, stretch.MaxRate, rate)
	}
	cfg := core.ApplyProcessorOptions(opts...)
	st, err := stretch.New(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return &TimeStretch{rate: rate, stretcher: st}, nil
}

// Rate returns the frozen stretch rate.
func (t *TimeStretch) Rate() float64 { return t.rate }

// Apply returns a stretched copy of sample with len(sample) samples.
func (t *TimeStretch) Apply(sample []float64) ([]float64, error) {
	n := len(sample)
	if n == 0 {
		return []float64{}, nil
	}

	stretched, err := t.stretcher.Process(sample, t.rate)
	if err != nil {
		return nil, fmt.Errorf("%w: time stretch at rate %f: %w", ErrInvalidArgument, t.rate, err)
	}
	if len(stretched) == 0 {
		return nil, fmt.Errorf("%w: time stretch produced no samples", ErrShapeMismatch)
	}

	return core.FitLength(stretched, n), nil
}
