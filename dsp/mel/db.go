package mel

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-augment/dsp/core"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultAmin is the power floor applied before taking logarithms.
	DefaultAmin = 1e-10
	// DefaultTopDB is the dynamic range kept below the peak.
	DefaultTopDB = 80.0
)

// PowerToDB converts a power matrix to decibels referenced to its own
// maximum, so the loudest cell maps to 0 dB.
//
// Values are floored at amin before the logarithm. When topDB is positive,
// the result is clamped to no less than (peak - topDB). The input is not
// modified.
func PowerToDB(power mat.Matrix, amin, topDB float64) (*mat.Dense, error) {
	if !(amin > 0) {
		return nil, fmt.Errorf("power to dB amin must be > 0: %f", amin)
	}
	if topDB < 0 || math.IsNaN(topDB) {
		return nil, fmt.Errorf("power to dB topDB must be >= 0: %f", topDB)
	}

	rows, cols := power.Dims()
	out := mat.NewDense(rows, cols, nil)

	ref := mat.Max(power)
	refDB := core.LinearPowerToDB(math.Max(amin, ref))

	peak := math.Inf(-1)
	out.Apply(func(_, _ int, v float64) float64 {
		db := core.LinearPowerToDB(math.Max(amin, v)) - refDB
		if db > peak {
			peak = db
		}
		return db
	}, power)

	if topDB > 0 {
		floor := peak - topDB
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Max(v, floor)
		}, out)
	}
	return out, nil
}
