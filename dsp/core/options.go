package core

// DefaultSampleRate is the rate, in Hz, that augmentation pipelines assume
// when none is configured.
const DefaultSampleRate = 22050

// DefaultHopLength is the spectrogram hop, in samples, used by feature
// transforms.
const DefaultHopLength = 1024

// ProcessorConfig defines settings shared by augmentation and feature stages.
type ProcessorConfig struct {
	SampleRate float64
	HopLength  int
	Seed       uint64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used for 22.05 kHz mono material.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		HopLength:  DefaultHopLength,
		Seed:       1,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if IsFinitePositive(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithHopLength sets the spectrogram hop length.
func WithHopLength(hop int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if hop > 0 {
			cfg.HopLength = hop
		}
	}
}

// WithSeed sets the seed used to build random sources.
func WithSeed(seed uint64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Seed = seed
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
