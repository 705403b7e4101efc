package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("interp: linspace needs at least 2 points: %d", n)
	}
	out := floats.Span(make([]float64, n), start, stop)
	out[n-1] = stop
	return out, nil
}

// Logspace returns n values spaced evenly on a log scale from 10^start to
// 10^stop inclusive.
func Logspace(start, stop float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("interp: logspace needs at least 2 points: %d", n)
	}
	out := floats.Span(make([]float64, n), start, stop)
	for i, e := range out {
		out[i] = math.Pow(10, e)
	}
	return out, nil
}
