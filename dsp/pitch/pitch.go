package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/interp"
	"github.com/cwbudde/algo-augment/dsp/stretch"
)

const (
	identityEps = 1e-9
)

// Supported pitch ratios. MaxSemitones is the largest shift in either
// direction that stays inside them.
const (
	MinRatio     = 0.25
	MaxRatio     = 4.0
	MaxSemitones = 24
)

// Shifter performs time-domain pitch shifting at a fixed sample rate.
//
// Pitch ratio:
//   - 1.0 = unchanged
//   - 2.0 = one octave up
//   - 0.5 = one octave down
type Shifter struct {
	stretcher *stretch.Stretcher
}

// New constructs a Shifter for material at sampleRate. opts tune the
// underlying WSOLA windows.
func New(sampleRate float64, opts ...stretch.Option) (*Shifter, error) {
	st, err := stretch.New(sampleRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("pitch shifter: %w", err)
	}
	return &Shifter{stretcher: st}, nil
}

// Shift transposes sample by steps semitones at sampleRate.
func Shift(sample []float64, sampleRate float64, steps int) ([]float64, error) {
	s, err := New(sampleRate)
	if err != nil {
		return nil, err
	}
	return s.ProcessSemitones(sample, float64(steps))
}

// SampleRate returns the sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.stretcher.SampleRate() }

// RatioForSemitones converts an equal-tempered semitone offset to a
// frequency ratio.
func RatioForSemitones(semitones float64) float64 {
	return math.Pow(2, semitones/12.0)
}

// ProcessSemitones pitch-shifts sample by semitones and returns a new slice
// of the same length.
func (s *Shifter) ProcessSemitones(sample []float64, semitones float64) ([]float64, error) {
	if !core.IsFinite(semitones) {
		return nil, fmt.Errorf("pitch shifter semitones must be finite: %f", semitones)
	}
	out, err := s.ProcessRatio(sample, RatioForSemitones(semitones))
	if err != nil {
		return nil, fmt.Errorf("pitch shifter semitones out of range: %w", err)
	}
	return out, nil
}

// ProcessRatio pitch-shifts sample by ratio and returns a new slice of the
// same length. sample is not modified.
func (s *Shifter) ProcessRatio(sample []float64, ratio float64) ([]float64, error) {
	if !core.IsFinitePositive(ratio) || ratio < MinRatio || ratio > MaxRatio {
		return nil, fmt.Errorf("pitch shifter ratio must be in [%f, %f]: %f", MinRatio, MaxRatio, ratio)
	}
	if len(sample) == 0 {
		return []float64{}, nil
	}
	if math.Abs(ratio-1) <= identityEps {
		return core.Clone(sample), nil
	}

	// Slowing down by ratio lengthens the material by ratio; squeezing it
	// back into the original length raises every partial by the same ratio.
	stretched, err := s.stretcher.Process(sample, 1/ratio)
	if err != nil {
		return nil, err
	}
	return resampleHermite(stretched, len(sample)), nil
}

func resampleHermite(input []float64, outLen int) []float64 {
	if outLen <= 0 || len(input) == 0 {
		return []float64{}
	}

	out := make([]float64, outLen)
	if len(input) == 1 || outLen == 1 {
		for i := range out {
			out[i] = input[0]
		}
		return out
	}

	step := float64(len(input)-1) / float64(outLen-1)
	for i := range out {
		out[i] = interp.HermiteAt(input, float64(i)*step)
	}
	return out
}
