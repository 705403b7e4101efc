// Package stretch changes the duration of a mono sample without changing its
// pitch.
//
// The stretcher is a WSOLA (waveform-similarity overlap-add) design: fixed
// length sequences are copied from the input at a nominal hop of
// rate*outputHop, each one nudged within a small search window to the offset
// whose overlap best correlates with the previous sequence, then cross-faded
// with a raised-cosine ramp.
//
// A rate above 1 speeds the material up and shortens it, a rate below 1 slows
// it down. The output holds round(len(input)/rate) samples.
package stretch
