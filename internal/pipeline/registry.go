package pipeline

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-augment/dsp/augment"
	"github.com/cwbudde/algo-augment/dsp/core"
)

// ErrUnknownTransform is returned when a step names an unregistered type.
var ErrUnknownTransform = errors.New("pipeline: unknown transform type")

var errDuplicateTransform = errors.New("pipeline: duplicate transform type")

// Env carries what factories need besides the step itself.
type Env struct {
	Rand      *rand.Rand
	Processor []core.ProcessorOption
}

// Factory builds one transform from its step configuration.
type Factory func(step Step, env Env) (augment.Transform, error)

// Registry maps transform kinds to factories.
type Registry struct {
	factories map[Kind]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register adds a factory for kind.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if kind == "" {
		return errors.New("pipeline: empty transform type")
	}
	if factory == nil {
		return errors.New("pipeline: nil factory")
	}
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateTransform, kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory for kind, or nil.
func (r *Registry) Lookup(kind Kind) Factory {
	return r.factories[kind]
}

// DefaultRegistry returns a registry with every built-in transform.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KindCrop, newCrop)
	r.MustRegister(KindRandomCrop, newRandomCrop)
	r.MustRegister(KindMask, newMask)
	r.MustRegister(KindTimeStretch, newTimeStretch)
	r.MustRegister(KindPitchShift, newPitchShift)
	return r
}

func newCrop(s Step, _ Env) (augment.Transform, error) {
	return augment.NewCrop(intOr(s.Length, 0), s.Start), nil
}

func newRandomCrop(s Step, env Env) (augment.Transform, error) {
	return augment.NewRandomCrop(env.Rand, intOr(s.Length, 0))
}

func newMask(s Step, env Env) (augment.Transform, error) {
	return augment.NewMask(env.Rand, floatOr(s.MaskRate, augment.DefaultMaskRate))
}

func newTimeStretch(s Step, env Env) (augment.Transform, error) {
	if s.Rate != nil {
		return augment.NewTimeStretchRate(*s.Rate, env.Processor...)
	}
	return augment.NewTimeStretch(env.Rand, floatOr(s.RateWidth, augment.DefaultRateWidth), env.Processor...)
}

func newPitchShift(s Step, env Env) (augment.Transform, error) {
	if s.Steps != nil {
		return augment.NewPitchShiftStep(*s.Steps, env.Processor...)
	}
	return augment.NewPitchShift(env.Rand, floatOr(s.StepWidth, augment.DefaultStepWidth), env.Processor...)
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
