package augment

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/pitch"
)

// DefaultStepWidth gives pitch steps in [-3, 3] semitones.
const DefaultStepWidth = 6.0

// MaxStepWidth keeps every drawn step within pitch.MaxSemitones.
const MaxStepWidth = 2 * pitch.MaxSemitones

// PitchShift transposes a sample by a whole number of semitones while
// keeping its length.
type PitchShift struct {
	step    int
	shifter *pitch.Shifter
}

// NewPitchShift draws the step once from rng as a value uniform in
// [-stepWidth/2, stepWidth/2) truncated toward zero, so 0 is drawn about
// twice as often as any other step. stepWidth must lie in [0, MaxStepWidth].
func NewPitchShift(rng *rand.Rand, stepWidth float64, opts ...core.ProcessorOption) (*PitchShift, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: pitch shift needs a generator", ErrInvalidArgument)
	}
	if !(stepWidth >= 0 && stepWidth <= MaxStepWidth) {
		return nil, fmt.Errorf("%w: pitch shift step width must be in [0, %d]: %f", ErrInvalidArgument, MaxStepWidth, stepWidth)
	}
	p, err := newPitchShift(opts)
	if err != nil {
		return nil, err
	}
	p.step = int(uniform(rng, -stepWidth/2, stepWidth/2))
	return p, nil
}

// NewPitchShiftStep builds a PitchShift with a fixed step of at most
// pitch.MaxSemitones in either direction.
func NewPitchShiftStep(step int, opts ...core.ProcessorOption) (*PitchShift, error) {
	if step < -pitch.MaxSemitones || step > pitch.MaxSemitones {
		return nil, fmt.Errorf("%w: pitch shift step must be in [-%d, %d]: %d",
			ErrInvalidArgument, pitch.MaxSemitones, pitch.MaxSemitones, step)
	}
	p, err := newPitchShift(opts)
	if err != nil {
		return nil, err
	}
	p.step = step
	return p, nil
}

func newPitchShift(opts []core.ProcessorOption) (*PitchShift, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	sh, err := pitch.New(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return &PitchShift{shifter: sh}, nil
}

// Step returns the frozen semitone offset.
func (p *PitchShift) Step() int { return p.step }

// SampleRate returns the rate the shift is computed at.
func (p *PitchShift) SampleRate() float64 { return p.shifter.SampleRate() }

// Apply returns a pitch-shifted copy of sample with the same length.
func (p *PitchShift) Apply(sample []float64) ([]float64, error) {
	out, err := p.shifter.ProcessSemitones(sample, float64(p.step))
	if err != nil {
		return nil, fmt.Errorf("%w: pitch shift by %d steps: %w", ErrInvalidArgument, p.step, err)
	}
	if len(out) != len(sample) {
		return nil, fmt.Errorf("%w: pitch shift output %d samples, want %d", ErrShapeMismatch, len(out), len(sample))
	}
	return out, nil
}
