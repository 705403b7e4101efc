// Package wavio reads and writes mono float64 audio as PCM WAV using the
// go-audio codecs.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmFormat is the WAVE format tag for integer PCM.
const pcmFormat = 1

var (
	// ErrNotWavFile is returned when the input has no RIFF/WAVE header.
	ErrNotWavFile = errors.New("wavio: not a wav file")
	// ErrUnsupportedFormat is returned for non-PCM data or unsupported bit depths.
	ErrUnsupportedFormat = errors.New("wavio: unsupported wav format")
)

// Clip holds mono samples in [-1, 1] with the properties of the file they
// came from.
type Clip struct {
	Samples    []float64
	SampleRate int
	Channels   int
	BitDepth   int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Read decodes a 16, 24 or 32-bit PCM WAV stream. Multi-channel input is
// averaged down to mono.
func Read(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	fullScale, err := fullScale(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode pcm: %w", err)
	}
	channels := int(dec.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	scale := 1 / (fullScale * float64(channels))
	for i := range samples {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		samples[i] = float64(sum) * scale
	}

	return &Clip{
		Samples:    samples,
		SampleRate: int(dec.SampleRate),
		Channels:   channels,
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes samples as mono 16-bit PCM. Values outside [-1, 1] are
// clipped.
func Write(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", sampleRate)
	}

	const bitDepth = 16
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = quantize16(v)
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

// WriteFile encodes samples to a new file at path.
func WriteFile(path string, samples []float64, sampleRate int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("wavio: %w", cerr)
		}
	}()
	return Write(f, samples, sampleRate)
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit", ErrUnsupportedFormat, bitDepth)
	}
}

func quantize16(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = core.Clamp(v, -1, 1)
	return int(math.Round(v * 32767))
}
