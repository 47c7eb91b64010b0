package trace

// Summary describes one channel's sample window for display.
type Summary struct {
	Last float64
	Min  float64
	Max  float64
	Mean float64
	N    int
}

// Summarize computes the summary of a sample window. An empty window
// yields a zero Summary.
func Summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}

	s := Summary{
		Last: vals[len(vals)-1],
		Min:  vals[0],
		Max:  vals[0],
		N:    len(vals),
	}

	var sum float64
	for _, v := range vals {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(len(vals))

	return s
}
