package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a channels × height × width stack of equally sized matrices.
type Tensor struct {
	height, width int
	channels      []*mat.Dense
}

// New allocates a zero tensor.
func New(channels, height, width int) (*Tensor, error) {
	if channels <= 0 || height <= 0 || width <= 0 {
		return nil, fmt.Errorf("tensor shape must be positive: (%d, %d, %d)", channels, height, width)
	}
	t := &Tensor{height: height, width: width, channels: make([]*mat.Dense, channels)}
	for c := range t.channels {
		t.channels[c] = mat.NewDense(height, width, nil)
	}
	return t, nil
}

// Shape returns (channels, height, width).
func (t *Tensor) Shape() (int, int, int) {
	return len(t.channels), t.height, t.width
}

// At returns the value at channel c, row i, column j.
func (t *Tensor) At(c, i, j int) float64 {
	return t.channels[c].At(i, j)
}

// Channel returns channel c. The matrix is shared with the tensor.
func (t *Tensor) Channel(c int) *mat.Dense {
	return t.channels[c]
}

// SetChannel copies m into channel c.
func (t *Tensor) SetChannel(c int, m mat.Matrix) error {
	if c < 0 || c >= len(t.channels) {
		return fmt.Errorf("tensor channel %d out of range [0, %d)", c, len(t.channels))
	}
	r, w := m.Dims()
	if r != t.height || w != t.width {
		return fmt.Errorf("tensor channel shape %dx%d, want %dx%d", r, w, t.height, t.width)
	}
	t.channels[c].Copy(m)
	return nil
}

// Data returns the values flattened in channel, row, column order.
func (t *Tensor) Data() []float64 {
	out := make([]float64, 0, len(t.channels)*t.height*t.width)
	for _, ch := range t.channels {
		for i := 0; i < t.height; i++ {
			out = append(out, ch.RawRowView(i)...)
		}
	}
	return out
}

// Range returns the minimum and maximum value over all channels.
func (t *Tensor) Range() (lo, hi float64) {
	lo, hi = mat.Min(t.channels[0]), mat.Max(t.channels[0])
	for _, ch := range t.channels[1:] {
		lo = min(lo, mat.Min(ch))
		hi = max(hi, mat.Max(ch))
	}
	return lo, hi
}
