package speech

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/orcaman/writerseeker"
)

const flacBlockSize = 4096

// EncodeWAV writes mono 16-bit PCM into an in-memory WAV file.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	// Emulate a file in RAM so that we don't have to create a real file.
	file := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(file, sampleRate, 16, 1, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:           toInts(samples),
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	return io.ReadAll(file.Reader())
}

// EncodeFLAC writes mono 16-bit PCM as a FLAC stream using verbatim subframes.
func EncodeFLAC(samples []int16, sampleRate int) ([]byte, error) {
	buf := new(bytes.Buffer)

	info := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     1,
		BitsPerSample: 16,
		NSamples:      uint64(len(samples)),
	}

	enc, err := flac.NewEncoder(buf, info)
	if err != nil {
		return nil, fmt.Errorf("creating FLAC encoder: %w", err)
	}

	for i, num := 0, 0; i < len(samples); i, num = i+flacBlockSize, num+1 {
		end := min(i+flacBlockSize, len(samples))
		block := make([]int32, end-i)
		for j, s := range samples[i:end] {
			block[j] = int32(s)
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(len(block)),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.ChannelsMono,
				BitsPerSample:     16,
				Num:               uint64(num),
			},
			Subframes: []*frame.Subframe{
				{
					SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
					Samples:   block,
					NSamples:  len(block),
				},
			},
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("writing FLAC frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing FLAC encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func toInts(samples []int16) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(s)
	}
	return out
}
