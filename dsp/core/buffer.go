package core

// Clone returns a copy of buf. A nil buf yields nil.
func Clone(buf []float64) []float64 {
	if buf == nil {
		return nil
	}
	out := make([]float64, len(buf))
	copy(out, buf)
	return out
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// FitLength returns a new slice of exactly n samples derived from buf.
//
// A longer buf is truncated to its first n samples. A shorter buf is extended
// by repeating its own content cyclically from the start (wrap padding), so
// the tail never introduces silence. An empty buf cannot be wrapped and
// yields nil for n > 0.
func FitLength(buf []float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if len(buf) == 0 {
		return nil
	}

	out := make([]float64, n)
	copied := copy(out, buf)
	for i := copied; i < n; i++ {
		out[i] = buf[i%len(buf)]
	}
	return out
}
