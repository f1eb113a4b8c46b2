// Package voice prepares audio for narrowband FM: WAV input and output,
// linear resampling, tone synthesis and the FM step itself.
package voice

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV is returned for input that is not a readable WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrUnsupportedBitDepth is returned for PCM depths other than 16 and 32.
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

	// ErrInvalidConfig is returned for rates, tones or deviations that cannot run.
	ErrInvalidConfig = errors.New("invalid voice configuration")
)

const (
	bitsPerSample16 = 16
	bitsPerSample32 = 32

	wavFormatPCM = 1
)

// Audio is a mono float waveform normalized to [-1, 1].
type Audio struct {
	Samples    []float32
	SampleRate int
	BitDepth   int // source PCM depth, 0 for synthesized audio
}

// Duration returns the playing time of a.
func (a *Audio) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(a.Samples)) / float64(a.SampleRate) * float64(time.Second))
}

// LoadWAV reads the WAV file at path.
func LoadWAV(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	a, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// DecodeWAV reads 16 or 32-bit PCM from r. Only the first channel of
// multichannel input is kept. Samples are divided by the largest positive
// value of the source type.
func DecodeWAV(r io.ReadSeeker) (*Audio, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	depth := int(decoder.BitDepth)
	maxVal, err := maxValue(depth)
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	channels := max(int(decoder.NumChans), 1)
	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	inv := 1 / maxVal
	for i := range frames {
		samples[i] = float32(float64(buf.Data[i*channels]) * inv)
	}

	return &Audio{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
		BitDepth:   depth,
	}, nil
}

// WriteWAV encodes a as 16-bit mono PCM. Samples outside [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, a *Audio) error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, a.SampleRate)
	}

	data := make([]int, len(a.Samples))
	for i, s := range a.Samples {
		data[i] = int(math.Round(float64(clamp(s)) * math.MaxInt16))
	}

	enc := wav.NewEncoder(w, a.SampleRate, bitsPerSample16, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: bitsPerSample16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return math.MaxInt16, nil
	case bitsPerSample32:
		return math.MaxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit (want 16 or 32)", ErrUnsupportedBitDepth, bitDepth)
	}
}

func clamp(s float32) float32 {
	return max(-1, min(1, s))
}
