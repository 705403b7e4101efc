package augment

import (
	"fmt"
	"math/rand/v2"
)

// Crop extracts sample[start : start+length].
//
// Like slicing, Crop does not pad: when start+length runs past the end of
// the sample the result holds only the samples that exist.
type Crop struct {
	length int
	start  int
}

// NewCrop returns a Crop. Arguments are validated when the crop is applied.
func NewCrop(length, start int) *Crop {
	return &Crop{length: length, start: start}
}

// Length returns the requested crop length.
func (c *Crop) Length() int { return c.length }

// Start returns the crop offset.
func (c *Crop) Start() int { return c.start }

// Apply returns a copy of the cropped span.
func (c *Crop) Apply(sample []float64) ([]float64, error) {
	if c.start > len(sample) {
		return nil, fmt.Errorf("%w: crop start %d beyond sample length %d", ErrOutOfRange, c.start, len(sample))
	}
	if c.start < 0 || c.length < 0 {
		return nil, fmt.Errorf("%w: crop start and length must be >= 0: start=%d length=%d",
			ErrInvalidArgument, c.start, c.length)
	}

	end := min(c.start+c.length, len(sample))
	out := make([]float64, end-c.start)
	copy(out, sample[c.start:end])
	return out, nil
}

// RandomCrop extracts length consecutive samples at an offset drawn
// uniformly on every call.
type RandomCrop struct {
	rng    *rand.Rand
	length int
}

// NewRandomCrop returns a RandomCrop drawing offsets from rng.
func NewRandomCrop(rng *rand.Rand, length int) (*RandomCrop, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random crop needs a generator", ErrInvalidArgument)
	}
	return &RandomCrop{rng: rng, length: length}, nil
}

// Length returns the crop length.
func (c *RandomCrop) Length() int { return c.length }

// Apply crops length samples starting at a random offset in
// [0, len(sample)-length). A sample exactly length long is returned whole.
//
// The offset is drawn from |len(sample)-length| before the arguments are
// checked, so a failing call still advances the generator.
func (c *RandomCrop) Apply(sample []float64) ([]float64, error) {
	span := len(sample) - c.length
	if span < 0 {
		span = -span
	}
	start := 0
	if span > 0 {
		start = c.rng.IntN(span)
	}

	if c.length < 0 {
		return nil, fmt.Errorf("%w: random crop length must be >= 0: %d", ErrInvalidArgument, c.length)
	}
	if len(sample) < c.length {
		return nil, fmt.Errorf("%w: random crop length %d exceeds sample length %d",
			ErrInvalidArgument, c.length, len(sample))
	}
	return NewCrop(c.length, start).Apply(sample)
}
