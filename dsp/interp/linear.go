package interp

import (
	"errors"
	"fmt"

	gonuminterp "gonum.org/v1/gonum/interp"
)

// ErrOutOfBounds is returned when a query lies outside the fitted axis.
var ErrOutOfBounds = errors.New("interp: query outside interpolation range")

// Linear is a piecewise-linear interpolant fitted to (x, y) control points.
//
// Linear refuses to extrapolate: every query must lie within
// [x[0], x[len(x)-1]].
type Linear struct {
	lo, hi float64
	pl     gonuminterp.PiecewiseLinear
}

// NewLinear fits a linear interpolant to the control points. x must be
// strictly increasing and have the same length as y, with at least two points.
func NewLinear(x, y []float64) (*Linear, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("interp: x/y length mismatch: %d != %d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("interp: need at least 2 control points: %d", len(x))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("interp: x must be strictly increasing at index %d", i)
		}
	}

	l := &Linear{lo: x[0], hi: x[len(x)-1]}
	if err := l.pl.Fit(x, y); err != nil {
		return nil, fmt.Errorf("interp: fit: %w", err)
	}
	return l, nil
}

// At evaluates the interpolant at q.
func (l *Linear) At(q float64) (float64, error) {
	if !(q >= l.lo && q <= l.hi) {
		return 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfBounds, q, l.lo, l.hi)
	}
	return l.pl.Predict(q), nil
}

// Eval evaluates the interpolant at every query point. dst is reused when it
// has enough capacity.
func (l *Linear) Eval(dst, queries []float64) ([]float64, error) {
	if cap(dst) < len(queries) {
		dst = make([]float64, len(queries))
	}
	dst = dst[:len(queries)]
	for i, q := range queries {
		v, err := l.At(q)
		if err != nil {
			return nil, err
		}
		dst[i] = v
	}
	return dst, nil
}

// Resample maps y, sampled on the axis from, onto the axis to.
func Resample(from, y, to []float64) ([]float64, error) {
	l, err := NewLinear(from, y)
	if err != nil {
		return nil, err
	}
	return l.Eval(nil, to)
}
