package voice

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pcm16Tolerance = 1.0 / math.MaxInt16

func writeTestWAV(t *testing.T, rate, depth, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, depth, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: depth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func TestWriteWAV_RoundTrip(t *testing.T) {
	in := &Audio{
		Samples:    []float32{0, 0.5, -0.5, 1, -1, 0.25},
		SampleRate: 16000,
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, in))
	require.NoError(t, f.Close())

	got, err := LoadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, got.SampleRate)
	assert.Equal(t, 16, got.BitDepth)
	require.Len(t, got.Samples, len(in.Samples))
	for i := range in.Samples {
		assert.InDelta(t, in.Samples[i], got.Samples[i], pcm16Tolerance, "sample %d", i)
	}
}

func TestWriteWAV_Clips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, &Audio{Samples: []float32{3, -3}, SampleRate: 8000}))
	require.NoError(t, f.Close())

	got, err := LoadWAV(path)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.Samples[0], pcm16Tolerance)
	assert.InDelta(t, -1, got.Samples[1], pcm16Tolerance)
}

func TestDecodeWAV_32BitStereoKeepsFirstChannel(t *testing.T) {
	data := []int{
		math.MaxInt32, 0,
		-math.MaxInt32 / 2, 12345,
		0, math.MinInt32 + 1,
	}
	path := writeTestWAV(t, 48000, 32, 2, data)

	got, err := LoadWAV(path)
	require.NoError(t, err)
	assert.Equal(t, 32, got.BitDepth)
	assert.Equal(t, 48000, got.SampleRate)
	require.Len(t, got.Samples, 3)
	assert.InDelta(t, 1, got.Samples[0], 1e-6)
	assert.InDelta(t, -0.5, got.Samples[1], 1e-6)
	assert.InDelta(t, 0, got.Samples[2], 1e-6)
}

func TestDecodeWAV_UnsupportedDepth(t *testing.T) {
	path := writeTestWAV(t, 8000, 8, 1, []int{10, 20, 30})
	_, err := LoadWAV(path)
	require.ErrorIs(t, err, ErrUnsupportedBitDepth)
}

func TestDecodeWAV_NotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff data"), 0o600))
	_, err := LoadWAV(path)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestLoadWAV_Missing(t *testing.T) {
	_, err := LoadWAV(filepath.Join(t.TempDir(), "missing.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAudioDuration(t *testing.T) {
	a := &Audio{Samples: make([]float32, 8000), SampleRate: 16000}
	assert.InDelta(t, 0.5, a.Duration().Seconds(), 1e-9)
	assert.Zero(t, (&Audio{}).Duration())
}
