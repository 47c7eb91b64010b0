package trace

// Decimate reduces a sample window to at most maxPoints values for display.
// Ordering is preserved, oldest first, and the first sample is always kept.
// Destination-based: reuses dst if it has sufficient capacity, otherwise
// allocates new. Returns the destination slice.
func Decimate(dst, vals []float64, maxPoints int) []float64 {
	if len(vals) <= maxPoints {
		// Nothing to drop, copy the window as is.
		if cap(dst) >= len(vals) {
			dst = dst[:len(vals)]
			copy(dst, vals)
			return dst
		}
		out := make([]float64, len(vals))
		copy(out, vals)
		return out
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]float64, 0, maxPoints)
	}

	// Step size for decimation.
	step := float64(len(vals)) / float64(maxPoints)

	for i := 0; i < maxPoints; i++ {
		idx := int(float64(i) * step)
		if idx < len(vals) {
			dst = append(dst, vals[idx])
		}
	}

	return dst
}
