// Package pitch transposes a mono sample without changing its duration.
//
// [Shifter] stretches the input by the pitch ratio with the WSOLA stretcher
// from package stretch and then resamples the stretched signal back to the
// original length with 4-point Hermite interpolation. Output length always
// equals input length.
package pitch
