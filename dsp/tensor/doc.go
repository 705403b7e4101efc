// Package tensor provides the image-like 2-D primitives used to turn a
// quantised spectrogram band into a network input: 8-bit grayscale images,
// bilinear resizing, conversion to [0,1] floats and per-channel affine
// normalisation. [Tensor] holds a channels × height × width stack of gonum
// matrices.
package tensor
