package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-augment/dsp/augment"
	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/window"
)

// Pipeline is a built configuration: the waveform chain plus an optional
// spectrogram tensor stage.
//
// The chain is not safe for concurrent use: its random transforms share one
// generator. ConstantQ may be shared. Build one Pipeline per goroutine.
type Pipeline struct {
	Chain     *augment.Chain
	ConstantQ *augment.ToConstantQ
	Processor core.ProcessorConfig
	Kinds     []Kind
}

// Build constructs every transform of cfg in order. Random parameters are
// drawn from one generator seeded with cfg.Seed, so the same file always
// yields the same pipeline. A nil registry means [DefaultRegistry].
//
// Every random transform of the result shares that generator, so the
// returned Pipeline's Chain must not be applied from several goroutines.
func Build(cfg *Config, reg *Registry) (*Pipeline, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	procOpts := cfg.ProcessorOptions()
	proc := core.ApplyProcessorOptions(procOpts...)
	env := Env{
		Rand:      augment.NewRand(proc.Seed),
		Processor: procOpts,
	}

	transforms := make([]augment.Transform, 0, len(cfg.Transforms))
	kinds := make([]Kind, 0, len(cfg.Transforms))
	for i, s := range cfg.Transforms {
		factory := reg.Lookup(s.Type)
		if factory == nil {
			return nil, fmt.Errorf("transforms[%d]: %w: %q", i, ErrUnknownTransform, s.Type)
		}
		t, err := factory(s, env)
		if err != nil {
			return nil, fmt.Errorf("transforms[%d] (%s): %w", i, s.Type, err)
		}
		transforms = append(transforms, t)
		kinds = append(kinds, s.Type)
	}

	p := &Pipeline{
		Chain:     augment.NewChain(transforms...),
		Processor: proc,
		Kinds:     kinds,
	}

	if q := cfg.ConstantQ; q != nil {
		opts := []augment.ConstantQOption{augment.WithProcessor(procOpts...)}
		if q.MelBands > 0 {
			opts = append(opts, augment.WithMelBands(q.MelBands))
		}
		if q.Frames > 0 {
			opts = append(opts, augment.WithFrames(q.Frames))
		}
		if q.Window != "" {
			w, err := window.Parse(q.Window)
			if err != nil {
				return nil, fmt.Errorf("constant_q: %w", err)
			}
			opts = append(opts, augment.WithWindow(w))
		}
		cq, err := augment.NewToConstantQ(q.Height, q.Width, opts...)
		if err != nil {
			return nil, fmt.Errorf("constant_q: %w", err)
		}
		p.ConstantQ = cq
	}
	return p, nil
}
