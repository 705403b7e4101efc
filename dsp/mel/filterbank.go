package mel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FilterBank builds a numMels × (fftSize/2+1) matrix of triangular filters
// spanning [fMin, fMax] Hz, each scaled to unit area (Slaney normalisation).
//
// With many bands and a short FFT some filters fall between two bins and
// come out empty; they are kept so the row count always equals numMels.
func FilterBank(numMels, fftSize int, sampleRate, fMin, fMax float64) (*mat.Dense, error) {
	if numMels <= 0 {
		return nil, fmt.Errorf("mel bands must be > 0: %d", numMels)
	}
	if fftSize < 2 {
		return nil, fmt.Errorf("mel fft size must be >= 2: %d", fftSize)
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("mel sample rate must be positive and finite: %f", sampleRate)
	}
	if fMin < 0 || !(fMax > fMin) || fMax > sampleRate/2 {
		return nil, fmt.Errorf("mel frequency range invalid: [%f, %f] at %f Hz", fMin, fMax, sampleRate)
	}

	bins := fftSize/2 + 1
	binHz := make([]float64, bins)
	for k := range binHz {
		binHz[k] = float64(k) * sampleRate / float64(fftSize)
	}

	edges := Frequencies(numMels+2, fMin, fMax)
	bank := mat.NewDense(numMels, bins, nil)

	for m := 0; m < numMels; m++ {
		left, center, right := edges[m], edges[m+1], edges[m+2]
		lowerWidth := center - left
		upperWidth := right - center
		norm := 2 / (right - left)

		for k, f := range binHz {
			lower := (f - left) / lowerWidth
			upper := (right - f) / upperWidth
			w := math.Min(lower, upper)
			if w > 0 {
				bank.Set(m, k, w*norm)
			}
		}
	}

	return bank, nil
}
