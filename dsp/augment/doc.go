// Package augment implements waveform augmentation transforms for
// representation learning.
//
// Waveform transforms ([Crop], [RandomCrop], [Mask], [TimeStretch],
// [PitchShift]) satisfy [Transform]: they map one mono sample to another.
// Randomised parameters (stretch rate, pitch step) are drawn once from the
// caller's generator at construction and frozen for the transform's
// lifetime. [RandomCrop] and [Mask] instead draw their offset on every call.
//
// All transforms return a new slice except [Mask], which zeroes a span of
// its input in place and reports this through [Mutator]. [Chain] composes
// transforms and copies before any mutating step so the caller's sample is
// never modified.
//
// [ToConstantQ] turns a sample into a channels × height × width tensor of
// log-frequency mel bands. It needs at least 130 spectrogram frames
// (132096 samples at the default hop of 1024).
//
// Errors wrap [ErrInvalidArgument], [ErrOutOfRange] or [ErrShapeMismatch].
package augment
