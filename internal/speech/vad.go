package speech

import (
	"fmt"
	"sync"

	vad "github.com/streamer45/silero-vad-go/speech"
)

// SileroDetector checks clips with the Silero VAD model. See:
// https://github.com/snakers4/silero-vad
type SileroDetector struct {
	modelPath string
	threshold float32

	mu sync.Mutex
}

func NewSileroDetector(modelPath string) *SileroDetector {
	return &SileroDetector{modelPath: modelPath, threshold: 0.5}
}

// HasSpeech reports whether the 16 kHz clip contains at least one speech segment.
func (s *SileroDetector) HasSpeech(samples []int16) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detector, err := vad.NewDetector(vad.DetectorConfig{
		ModelPath:            s.modelPath,
		SampleRate:           TargetSampleRate,
		Threshold:            s.threshold,
		MinSilenceDurationMs: 100,
		SpeechPadMs:          30,
	})
	if err != nil {
		return false, fmt.Errorf("create silero detector: %w", err)
	}
	defer detector.Destroy()

	segments, err := detector.Detect(toFloat32(samples))
	if err != nil {
		return false, err
	}
	return len(segments) > 0, nil
}

func toFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}
