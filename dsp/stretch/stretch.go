package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-augment/dsp/core"
)

const (
	// Music-tuned defaults: the sequence window holds several beat cycles so
	// the correlation search picks musically coherent segments.
	defaultSequenceMs = 82.0
	defaultOverlapMs  = 10.0
	defaultSearchMs   = 28.0

	minSequenceMs = 20.0
	maxSequenceMs = 120.0
	minOverlapMs  = 4.0
	maxOverlapMs  = 60.0
	minSearchMs   = 2.0
	maxSearchMs   = 40.0

	identityEps = 1e-9
	tiny        = 1e-12
)

// Supported stretch rates.
const (
	MinRate = 0.05
	MaxRate = 20.0
)

// Stretcher performs WSOLA time stretching at a fixed sample rate.
//
// A Stretcher holds only derived window tables, so one instance may be
// shared by concurrent callers.
type Stretcher struct {
	sampleRate float64

	sequenceMs float64
	overlapMs  float64
	searchMs   float64

	sequenceLen int
	overlapLen  int
	searchLen   int
	stepOut     int

	fadeIn  []float64
	fadeOut []float64
}

// Option configures a Stretcher.
type Option func(*Stretcher) error

// WithSequence sets the sequence length in milliseconds.
func WithSequence(ms float64) Option {
	return func(s *Stretcher) error {
		if !(ms >= minSequenceMs && ms <= maxSequenceMs) {
			return fmt.Errorf("stretch sequence must be in [%f, %f] ms: %f", minSequenceMs, maxSequenceMs, ms)
		}
		s.sequenceMs = ms
		return nil
	}
}

// WithOverlap sets the cross-fade length in milliseconds.
func WithOverlap(ms float64) Option {
	return func(s *Stretcher) error {
		if !(ms >= minOverlapMs && ms <= maxOverlapMs) {
			return fmt.Errorf("stretch overlap must be in [%f, %f] ms: %f", minOverlapMs, maxOverlapMs, ms)
		}
		s.overlapMs = ms
		return nil
	}
}

// WithSearch sets the seek window radius in milliseconds.
func WithSearch(ms float64) Option {
	return func(s *Stretcher) error {
		if !(ms >= minSearchMs && ms <= maxSearchMs) {
			return fmt.Errorf("stretch search must be in [%f, %f] ms: %f", minSearchMs, maxSearchMs, ms)
		}
		s.searchMs = ms
		return nil
	}
}

// New constructs a Stretcher for material at sampleRate.
func New(sampleRate float64, opts ...Option) (*Stretcher, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("stretch sample rate must be positive and finite: %f", sampleRate)
	}
	s := &Stretcher{
		sampleRate: sampleRate,
		sequenceMs: defaultSequenceMs,
		overlapMs:  defaultOverlapMs,
		searchMs:   defaultSearchMs,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// Stretch time-stretches sample by rate at the default 22.05 kHz rate.
func Stretch(sample []float64, rate float64) ([]float64, error) {
	s, err := New(core.DefaultSampleRate)
	if err != nil {
		return nil, err
	}
	return s.Process(sample, rate)
}

// SampleRate returns the sample rate in Hz.
func (s *Stretcher) SampleRate() float64 { return s.sampleRate }

// Sequence returns sequence length in milliseconds.
func (s *Stretcher) Sequence() float64 { return s.sequenceMs }

// Overlap returns overlap length in milliseconds.
func (s *Stretcher) Overlap() float64 { return s.overlapMs }

// Search returns seek window radius in milliseconds.
func (s *Stretcher) Search() float64 { return s.searchMs }

// OutputLen returns the number of samples Process produces for an input of
// inputLen samples at rate.
func OutputLen(inputLen int, rate float64) int {
	if inputLen <= 0 {
		return 0
	}
	n := int(math.Round(float64(inputLen) / rate))
	if n < 1 {
		n = 1
	}
	return n
}

// Process returns a new slice holding sample played rate times faster
// without a change in pitch. sample is not modified.
func (s *Stretcher) Process(sample []float64, rate float64) ([]float64, error) {
	if !core.IsFinitePositive(rate) || rate < MinRate || rate > MaxRate {
		return nil, fmt.Errorf("stretch rate must be in [%f, %f]: %f", MinRate, MaxRate, rate)
	}
	if len(sample) == 0 {
		return []float64{}, nil
	}
	if math.Abs(rate-1) <= identityEps {
		return core.Clone(sample), nil
	}
	return s.wsola(sample, rate), nil
}

func (s *Stretcher) rebuild() error {
	if s.overlapMs >= s.sequenceMs {
		return fmt.Errorf("stretch overlap must be smaller than sequence: overlap=%f sequence=%f",
			s.overlapMs, s.sequenceMs)
	}

	s.sequenceLen = int(math.Round(s.sequenceMs * 0.001 * s.sampleRate))
	if s.sequenceLen < 32 {
		s.sequenceLen = 32
	}
	s.overlapLen = int(math.Round(s.overlapMs * 0.001 * s.sampleRate))
	if s.overlapLen < 8 {
		s.overlapLen = 8
	}
	if s.overlapLen >= s.sequenceLen {
		return fmt.Errorf("stretch overlap too large for sequence: overlap=%d sequence=%d",
			s.overlapLen, s.sequenceLen)
	}
	s.stepOut = s.sequenceLen - s.overlapLen
	if s.stepOut < 4 {
		return fmt.Errorf("stretch output hop too small: %d", s.stepOut)
	}

	s.searchLen = int(math.Round(s.searchMs * 0.001 * s.sampleRate))
	if s.searchLen < 1 {
		s.searchLen = 1
	}

	s.fadeIn = make([]float64, s.overlapLen)
	s.fadeOut = make([]float64, s.overlapLen)
	for i := range s.overlapLen {
		t := float64(i) / float64(s.overlapLen-1)
		in := 0.5 - 0.5*math.Cos(math.Pi*t)
		s.fadeIn[i] = in
		s.fadeOut[i] = 1 - in
	}
	return nil
}

func (s *Stretcher) wsola(input []float64, rate float64) []float64 {
	targetLen := OutputLen(len(input), rate)

	nominalInStep := float64(s.stepOut) * rate
	if nominalInStep < 1 {
		nominalInStep = 1
	}

	frames := targetLen/s.stepOut + 4
	out := make([]float64, frames*s.stepOut+s.sequenceLen+1)

	for i := 0; i < s.sequenceLen; i++ {
		out[i] = sampleZero(input, i)
	}
	outLen := s.sequenceLen
	prevStart := 0
	nextNominal := nominalInStep
	ref := make([]float64, s.overlapLen)

	for outLen < targetLen+s.sequenceLen {
		// The natural continuation of the previous sequence is the
		// reference the next segment must line up with.
		refStart := prevStart + s.stepOut
		for i := range ref {
			ref[i] = sampleZero(input, refStart+i)
		}

		candStart := s.bestOverlap(ref, input, int(math.Round(nextNominal)))

		outStart := outLen - s.overlapLen
		for i := 0; i < s.overlapLen; i++ {
			out[outStart+i] = out[outStart+i]*s.fadeOut[i] + sampleZero(input, candStart+i)*s.fadeIn[i]
		}
		for i := s.overlapLen; i < s.sequenceLen; i++ {
			out[outStart+i] = sampleZero(input, candStart+i)
		}

		outLen = outStart + s.sequenceLen
		prevStart = candStart
		nextNominal += nominalInStep

		if prevStart > len(input)+s.sequenceLen && outLen >= targetLen {
			break
		}
	}

	return out[:targetLen:targetLen]
}

func (s *Stretcher) bestOverlap(ref, input []float64, predicted int) int {
	best := predicted
	bestScore := math.Inf(-1)

	refEnergy := tiny
	for _, v := range ref {
		refEnergy += v * v
	}

	for cand := predicted - s.searchLen; cand <= predicted+s.searchLen; cand++ {
		dot := 0.0
		candEnergy := tiny
		for i, rv := range ref {
			cv := sampleZero(input, cand+i)
			dot += rv * cv
			candEnergy += cv * cv
		}
		score := dot / math.Sqrt(refEnergy*candEnergy)
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}

	return best
}

func sampleZero(x []float64, idx int) float64 {
	if idx < 0 || idx >= len(x) {
		return 0
	}
	return x[idx]
}
