package speech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingStopsAfterSilence(t *testing.T) {
	gate := Gate{MinVolume: 450, MinVoiceRatio: defaultVoiceRatio}
	voice := sine(500, 6000, 16000, 512)
	quiet := make([]int16, 512)

	start := time.Unix(0, 0)
	rec := newRecording(gate, 16000, time.Second, 25*time.Second, 10*time.Second, start)

	done, err := rec.add(quiet, start.Add(100*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, rec.buffer, "silence before speech is not kept")

	done, err = rec.add(voice, start.Add(200*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, done)

	done, err = rec.add(quiet, start.Add(700*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, done)

	done, err = rec.add(quiet, start.Add(1200*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, done)

	clip := rec.clip()
	assert.Equal(t, 16000, clip.SampleRate)
	assert.Len(t, clip.Samples, 3*512)
}

func TestRecordingCapsDuration(t *testing.T) {
	gate := Gate{MinVolume: 450, MinVoiceRatio: defaultVoiceRatio}
	voice := sine(500, 6000, 16000, 512)

	start := time.Unix(0, 0)
	rec := newRecording(gate, 16000, time.Second, 2*time.Second, 0, start)

	done, err := rec.add(voice, start)
	require.NoError(t, err)
	assert.False(t, done)

	done, err = rec.add(voice, start.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, done)
}

func TestRecordingGivesUpWithoutSpeech(t *testing.T) {
	gate := Gate{MinVolume: 450, MinVoiceRatio: defaultVoiceRatio}
	quiet := make([]int16, 512)

	start := time.Unix(0, 0)
	rec := newRecording(gate, 16000, time.Second, 25*time.Second, 3*time.Second, start)

	_, err := rec.add(quiet, start.Add(time.Second))
	require.NoError(t, err)

	_, err = rec.add(quiet, start.Add(3*time.Second))
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestRecordingIdleWithoutFrames(t *testing.T) {
	gate := Gate{MinVolume: 450, MinVoiceRatio: defaultVoiceRatio}
	start := time.Unix(0, 0)
	rec := newRecording(gate, 16000, time.Second, 25*time.Second, 3*time.Second, start)

	assert.NoError(t, rec.idle(start.Add(2*time.Second)))
	assert.ErrorIs(t, rec.idle(start.Add(3*time.Second)), ErrNoSpeech)
}

func TestRecordingIdleIgnoredOnceSpeechHeard(t *testing.T) {
	gate := Gate{MinVolume: 450, MinVoiceRatio: defaultVoiceRatio}
	start := time.Unix(0, 0)
	rec := newRecording(gate, 16000, time.Second, 25*time.Second, 3*time.Second, start)

	_, err := rec.add(sine(500, 6000, 16000, 512), start.Add(time.Second))
	require.NoError(t, err)

	assert.NoError(t, rec.idle(start.Add(10*time.Second)))
}

func TestRecordingIdleWithoutListenTimeout(t *testing.T) {
	gate := Gate{MinVolume: 450, MinVoiceRatio: defaultVoiceRatio}
	start := time.Unix(0, 0)
	rec := newRecording(gate, 16000, time.Second, 25*time.Second, 0, start)

	assert.NoError(t, rec.idle(start.Add(time.Hour)))
}
