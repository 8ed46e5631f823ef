package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/bz888/stockchat/internal/logger"
	"github.com/gordonklaus/portaudio"
)

const (
	framesPerBuffer       = 512 * 9
	defaultSilenceTimeout = time.Second
	maxReadErrors         = 50
)

// Microphone records a single utterance from the default input device.
type Microphone struct {
	Gate           Gate
	SilenceTimeout time.Duration
	MaxDuration    time.Duration
	ListenTimeout  time.Duration
}

func (m *Microphone) Record(ctx context.Context) (Clip, error) {
	localLogger := logger.NewLogger("microphone")

	if err := portaudio.Initialize(); err != nil {
		return Clip{}, fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return Clip{}, fmt.Errorf("find default device: %w", err)
	}
	sampleRate := int(device.DefaultSampleRate)
	localLogger.Info("Selected device: ", device.Name, " ", sampleRate, "Hz")

	in := make([]int16, framesPerBuffer)
	audioStream, err := portaudio.OpenDefaultStream(1, 0, device.DefaultSampleRate, len(in), &in)
	if err != nil {
		return Clip{}, fmt.Errorf("open stream: %w", err)
	}
	defer audioStream.Close()

	if err := audioStream.Start(); err != nil {
		return Clip{}, fmt.Errorf("start stream: %w", err)
	}
	defer audioStream.Stop()

	rec := newRecording(m.Gate, sampleRate, m.SilenceTimeout, m.MaxDuration, m.ListenTimeout, time.Now())
	readErrors := 0
	for {
		select {
		case <-ctx.Done():
			return Clip{}, ctx.Err()
		default:
		}

		if err := audioStream.Read(); err != nil {
			readErrors++
			localLogger.Warnf("Reading from stream (%d in a row): %s", readErrors, err)
			if readErrors >= maxReadErrors {
				return Clip{}, fmt.Errorf("reading from stream: %w", err)
			}
			if err := rec.idle(time.Now()); err != nil {
				return Clip{}, err
			}
			continue
		}
		readErrors = 0

		done, err := rec.add(in, time.Now())
		if err != nil {
			return Clip{}, err
		}
		if done {
			return rec.clip(), nil
		}
	}
}

// recording accumulates frames once speech starts and reports when the
// utterance has ended.
type recording struct {
	gate           Gate
	sampleRate     int
	silenceTimeout time.Duration
	maxDuration    time.Duration
	listenTimeout  time.Duration

	started     time.Time
	heard       bool
	speechStart time.Time
	lastVoice   time.Time
	buffer      []int16
}

func newRecording(gate Gate, sampleRate int, silence, maxDuration, listen time.Duration, now time.Time) *recording {
	if silence <= 0 {
		silence = defaultSilenceTimeout
	}
	return &recording{
		gate:           gate,
		sampleRate:     sampleRate,
		silenceTimeout: silence,
		maxDuration:    maxDuration,
		listenTimeout:  listen,
		started:        now,
	}
}

func (r *recording) add(frame []int16, now time.Time) (bool, error) {
	voiced := r.gate.Voiced(frame, r.sampleRate)

	if !r.heard {
		if !voiced {
			return false, r.idle(now)
		}
		r.heard = true
		r.speechStart = now
	}

	r.buffer = append(r.buffer, frame...)
	if voiced {
		r.lastVoice = now
	}

	if now.Sub(r.lastVoice) >= r.silenceTimeout {
		return true, nil
	}
	if r.maxDuration > 0 && now.Sub(r.speechStart) >= r.maxDuration {
		return true, nil
	}
	return false, nil
}

// idle returns ErrNoSpeech once ListenTimeout passes without any speech.
func (r *recording) idle(now time.Time) error {
	if !r.heard && r.listenTimeout > 0 && now.Sub(r.started) >= r.listenTimeout {
		return ErrNoSpeech
	}
	return nil
}

func (r *recording) clip() Clip {
	samples := make([]int16, len(r.buffer))
	copy(samples, r.buffer)
	return Clip{Samples: samples, SampleRate: r.sampleRate}
}
