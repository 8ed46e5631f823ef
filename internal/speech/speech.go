package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bz888/stockchat/internal/logger"
)

// TargetSampleRate is what both the VAD model and the recognizer expect.
const TargetSampleRate = 16000

var (
	ErrDisabled     = errors.New("voice input disabled: no speech API key configured")
	ErrNoSpeech     = errors.New("no speech detected")
	ErrNoTranscript = errors.New("no transcript in recognizer response")
)

// Clip is a mono 16-bit recording.
type Clip struct {
	Samples    []int16
	SampleRate int
}

type Source interface {
	Record(ctx context.Context) (Clip, error)
}

type Detector interface {
	HasSpeech(samples []int16) (bool, error)
}

type Recognizer interface {
	Recognize(ctx context.Context, flacData []byte, sampleRate int) (string, float64, error)
}

type Options struct {
	APIKey         string
	Language       string
	ModelPath      string
	DumpDir        string
	MinVolume      float64
	SilenceTimeout time.Duration
	MaxDuration    time.Duration
	ListenTimeout  time.Duration
}

// Transcriber turns one spoken utterance into text.
type Transcriber struct {
	source     Source
	detector   Detector
	recognizer Recognizer
	dumpDir    string
}

// New wires the microphone, Silero VAD and Google recognizer. Without an API
// key the transcriber is disabled and Transcribe returns ErrDisabled.
func New(opts Options) *Transcriber {
	t := &Transcriber{dumpDir: opts.DumpDir}
	if opts.APIKey == "" {
		return t
	}

	t.source = &Microphone{
		Gate:           Gate{MinVolume: opts.MinVolume, MinVoiceRatio: defaultVoiceRatio},
		SilenceTimeout: opts.SilenceTimeout,
		MaxDuration:    opts.MaxDuration,
		ListenTimeout:  opts.ListenTimeout,
	}
	t.detector = NewSileroDetector(opts.ModelPath)
	t.recognizer = NewGoogleRecognizer(opts.APIKey, opts.Language)
	return t
}

func (t *Transcriber) Enabled() bool {
	return t.recognizer != nil && t.source != nil
}

func (t *Transcriber) Transcribe(ctx context.Context) (string, error) {
	if !t.Enabled() {
		return "", ErrDisabled
	}
	localLogger := logger.NewLogger("speech")

	clip, err := t.source.Record(ctx)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}
	localLogger.Info("Recorded ", len(clip.Samples), " samples at ", clip.SampleRate, "Hz")

	samples := Resample(clip.Samples, clip.SampleRate, TargetSampleRate)

	if t.detector != nil {
		detected, err := t.detector.HasSpeech(samples)
		if err != nil {
			return "", fmt.Errorf("detect voice: %w", err)
		}
		if !detected {
			return "", ErrNoSpeech
		}
	}

	if t.dumpDir != "" {
		if err := t.dump(samples); err != nil {
			localLogger.Warn("Failed to dump clip: ", err)
		}
	}

	flacData, err := EncodeFLAC(samples, TargetSampleRate)
	if err != nil {
		return "", fmt.Errorf("encode flac: %w", err)
	}

	start := time.Now()
	transcript, confidence, err := t.recognizer.Recognize(ctx, flacData, TargetSampleRate)
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	localLogger.Infof("Recognized in %s, confidence %.2f: %s", time.Since(start), confidence, transcript)

	return transcript, nil
}

func (t *Transcriber) dump(samples []int16) error {
	wavData, err := EncodeWAV(samples, TargetSampleRate)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("voice_%s.wav", time.Now().Format("20060102_150405.000"))
	return os.WriteFile(filepath.Join(t.dumpDir, name), wavData, 0o644)
}
