// Package interp provides the interpolation primitives used by the
// resampling and spectrogram-rescaling stages.
//
//   - [Hermite4]:  4-point cubic Hermite kernel for fractional sample reads
//   - [HermiteAt]: edge-clamped Hermite read at a fractional position
//   - [Linear]:    bounds-checked piecewise-linear interpolant over a strictly
//     increasing axis
//   - [Linspace], [Logspace]: axis construction helpers
package interp
