package augment

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-augment/dsp/core"
)

// DefaultMaskRate is the fraction of the sample zeroed by [Mask].
const DefaultMaskRate = 0.3

// Mask zeroes a contiguous span of floor(len*rate) samples in place. The
// span start is drawn again on every call.
type Mask struct {
	rng  *rand.Rand
	rate float64
}

// NewMask returns a Mask zeroing the given fraction of each sample. rate
// must lie in [0, 1).
func NewMask(rng *rand.Rand, rate float64) (*Mask, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: mask needs a generator", ErrInvalidArgument)
	}
	if !(rate >= 0 && rate < 1) {
		return nil, fmt.Errorf("%w: mask rate must be in [0, 1): %f", ErrInvalidArgument, rate)
	}
	return &Mask{rng: rng, rate: rate}, nil
}

// Rate returns the masked fraction.
func (m *Mask) Rate() float64 { return m.rate }

// MutatesInput reports true: Apply writes to its argument.
func (m *Mask) MutatesInput() bool { return true }

// Apply zeroes the span and returns sample itself.
func (m *Mask) Apply(sample []float64) ([]float64, error) {
	start, length, err := m.Span(len(sample))
	if err != nil {
		return nil, err
	}
	core.Zero(sample[start : start+length])
	return sample, nil
}

// Span draws the next span without touching any sample. It consumes the
// generator exactly as Apply does.
func (m *Mask) Span(n int) (start, length int, err error) {
	length = int(float64(n) * m.rate)
	if length >= n {
		return 0, 0, fmt.Errorf("%w: mask length %d must be shorter than sample length %d",
			ErrInvalidArgument, length, n)
	}
	return m.rng.IntN(n - length), length, nil
}
