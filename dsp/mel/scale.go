package mel

import "math"

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	slaneyFSp       = 200.0 / 3
	slaneyMinLogHz  = 1000.0
	slaneyMinLogMel = slaneyMinLogHz / slaneyFSp
)

var slaneyLogStep = math.Log(6.4) / 27.0

// HzToMel converts a frequency in Hz to the Slaney mel scale.
func HzToMel(hz float64) float64 {
	if hz >= slaneyMinLogHz {
		return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/slaneyLogStep
	}
	return hz / slaneyFSp
}

// MelToHz converts a Slaney mel value back to Hz.
func MelToHz(m float64) float64 {
	if m >= slaneyMinLogMel {
		return slaneyMinLogHz * math.Exp(slaneyLogStep*(m-slaneyMinLogMel))
	}
	return slaneyFSp * m
}

// Frequencies returns n band-edge frequencies in Hz spaced evenly on the
// mel scale between fMin and fMax inclusive.
func Frequencies(n int, fMin, fMax float64) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[0] = fMin
		return out
	}
	lo, hi := HzToMel(fMin), HzToMel(fMax)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = MelToHz(lo + step*float64(i))
	}
	return out
}
