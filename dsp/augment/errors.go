package augment

import "errors"

var (
	// ErrInvalidArgument reports a negative length, an out-of-domain rate or
	// a sample too short for the requested operation.
	ErrInvalidArgument = errors.New("augment: invalid argument")

	// ErrOutOfRange reports an index or frame count outside the valid range.
	ErrOutOfRange = errors.New("augment: out of range")

	// ErrShapeMismatch reports a result whose shape differs from the one the
	// transform guarantees.
	ErrShapeMismatch = errors.New("augment: shape mismatch")
)
