package speech

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	voiceBandLow  = 300.0
	voiceBandHigh = 3400.0

	defaultVoiceRatio = 0.5
)

// Gate decides whether a captured frame looks like someone talking: loud
// enough, with most of its energy inside the telephone voice band.
type Gate struct {
	MinVolume     float64
	MinVoiceRatio float64
}

func (g Gate) Voiced(frame []int16, sampleRate int) bool {
	if RMS(frame) <= g.MinVolume {
		return false
	}
	return VoiceBandRatio(frame, sampleRate) >= g.MinVoiceRatio
}

// RMS calculates the root-mean-square of the frame.
func RMS(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sumSquares float64
	for _, sample := range frame {
		val := float64(sample)
		sumSquares += val * val
	}
	return math.Sqrt(sumSquares / float64(len(frame)))
}

// VoiceBandRatio returns the share of spectral power between 300 and 3400 Hz.
func VoiceBandRatio(frame []int16, sampleRate int) float64 {
	n := len(frame)
	if n < 2 || sampleRate <= 0 {
		return 0
	}

	hann := window.Hann(n)
	x := make([]float64, n)
	for i, sample := range frame {
		x[i] = float64(sample) * hann[i]
	}
	spectrum := fft.FFTReal(x)

	var total, band float64
	binWidth := float64(sampleRate) / float64(n)
	// DC is skipped so a constant offset does not count as energy.
	for k := 1; k <= n/2; k++ {
		mag := cmplx.Abs(spectrum[k])
		power := mag * mag
		total += power

		freq := float64(k) * binWidth
		if freq >= voiceBandLow && freq <= voiceBandHigh {
			band += power
		}
	}
	if total == 0 {
		return 0
	}
	return band / total
}
