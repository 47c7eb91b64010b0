package trace

import "strings"

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a sample window as a run of block glyphs, at most
// width runes wide. Values are scaled against the window's own range. A
// flat window renders at the lowest level, as does any sample that is
// not finite. When the window holds fewer samples than width the output
// is padded on the left, so the newest sample always sits at the right
// edge.
func Sparkline(vals []float64, width int) string {
	if width <= 0 || len(vals) == 0 {
		return strings.Repeat(" ", max(width, 0))
	}

	pts := Decimate(nil, vals, width)
	s := Summarize(pts)
	span := s.Max - s.Min

	var b strings.Builder
	for i := len(pts); i < width; i++ {
		b.WriteRune(' ')
	}
	for _, v := range pts {
		level := 0
		if span > 0 {
			level = int((v - s.Min) / span * float64(len(sparkLevels)))
			if level < 0 {
				// NaN and -Inf scale to huge negative integers.
				level = 0
			}
			if level >= len(sparkLevels) {
				level = len(sparkLevels) - 1
			}
		}
		b.WriteRune(sparkLevels[level])
	}

	return b.String()
}
