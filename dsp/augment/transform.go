package augment

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-augment/dsp/core"
)

// Transform maps one sample to another.
type Transform interface {
	Apply(sample []float64) ([]float64, error)
}

// Mutator is implemented by transforms that may write to their input.
type Mutator interface {
	Transform
	MutatesInput() bool
}

// Mutates reports whether t writes to the sample passed to Apply.
func Mutates(t Transform) bool {
	m, ok := t.(Mutator)
	return ok && m.MutatesInput()
}

// NewRand returns a generator seeded deterministically from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Chain applies transforms in order.
//
// A Chain is safe for concurrent use only if every transform in it is.
// RandomCrop and Mask draw from their generator on every Apply, and a
// *rand.Rand is not safe for concurrent use, so a chain holding either must
// stay on one goroutine (or each goroutine builds its own).
type Chain struct {
	transforms []Transform
}

// NewChain builds a chain. Nil entries are skipped.
func NewChain(transforms ...Transform) *Chain {
	c := &Chain{transforms: make([]Transform, 0, len(transforms))}
	for _, t := range transforms {
		if t != nil {
			c.transforms = append(c.transforms, t)
		}
	}
	return c
}

// Len returns the number of transforms.
func (c *Chain) Len() int { return len(c.transforms) }

// Transforms returns the chained transforms in order.
func (c *Chain) Transforms() []Transform {
	return append([]Transform(nil), c.transforms...)
}

// Apply runs every transform in turn and returns the final sample. sample
// itself is never modified.
//
// A mutating transform receives a private copy unless the buffer it would
// see was produced by an earlier mutating step of this call. The output of a
// non-mutating transform is not assumed to be private, since it may be a view
// of its input.
func (c *Chain) Apply(sample []float64) ([]float64, error) {
	if len(c.transforms) == 0 {
		return core.Clone(sample), nil
	}

	cur := sample
	owned := false
	for i, t := range c.transforms {
		mutates := Mutates(t)
		if mutates && !owned {
			cur = core.Clone(cur)
		}
		out, err := t.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("chain step %d (%T): %w", i, t, err)
		}
		owned = mutates
		cur = out
	}
	return cur, nil
}
