package speech

import "math"

// Resample converts samples between rates by linear interpolation. Silero and
// the recognizer both want 16 kHz while most input devices run at 44.1 or 48.
func Resample(in []int16, from, to int) []int16 {
	if from == to || from <= 0 || to <= 0 || len(in) == 0 {
		out := make([]int16, len(in))
		copy(out, in)
		return out
	}

	n := int(int64(len(in)) * int64(to) / int64(from))
	out := make([]int16, n)
	step := float64(from) / float64(to)
	last := len(in) - 1

	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = in[last]
			continue
		}
		frac := pos - float64(j)
		v := float64(in[j])*(1-frac) + float64(in[j+1])*frac
		out[i] = int16(math.Round(v))
	}
	return out
}
