// Package mel computes power mel-spectrograms.
//
// The pipeline is:
//
//  1. centre the signal with n_fft/2 samples of reflect padding on each side
//  2. frame with hop length, apply a periodic window (Hann by default)
//  3. FFT each frame (algo-fft) and take the power spectrum (algo-vecmath)
//  4. project the power spectrum onto a Slaney-scale triangular filterbank
//     with Slaney area normalisation
//
// The result is a gonum *mat.Dense with one row per mel band and one column
// per frame. For an input of n samples there are 1 + n/hop frames.
//
// [PowerToDB] converts the power matrix to decibels relative to its maximum,
// with an amplitude floor and a dynamic-range clamp.
package mel
