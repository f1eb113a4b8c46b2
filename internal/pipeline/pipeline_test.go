package pipeline

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-baseband/internal/codec"
	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/go-baseband/internal/testutil"
)

const (
	testFactor       = 50
	testTapsPerPhase = 33
)

func afskTaps(t testing.TB) []float64 {
	t.Helper()
	taps, err := filter.DesignLowPass(filter.LowPassParams{
		Gain:            testFactor,
		SampleRate:      testFactor,
		Cutoff:          0.45,
		TransitionWidth: 0.1,
	})
	require.NoError(t, err)
	return taps
}

func testStreamConfig(t testing.TB) StreamConfig {
	return StreamConfig{
		Interpolation: testFactor,
		Taps:          afskTaps(t),
		Deviation:     testDeviation,
		SampleRate:    testAudioRate,
		Format:        codec.FormatF32,
	}
}

func toneInput(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*1200*float64(i)/testAudioRate))
	}
	return out
}

func TestNewStream_Defaults(t *testing.T) {
	s, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, s.cfg.ChunkSize)
	assert.Equal(t, DefaultBufferSize, s.cfg.BufferSize)
	assert.Equal(t, testTapsPerPhase, s.interp.TapsPerPhase())
	assert.InDelta(t, 2.4e6, s.OutputRate(), 1e-6)
}

func TestNewStream_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *StreamConfig)
	}{
		{"negative chunk", func(c *StreamConfig) { c.ChunkSize = -1 }},
		{"buffer too small for history", func(c *StreamConfig) { c.ChunkSize = 4096; c.BufferSize = 4100 }},
		{"no taps", func(c *StreamConfig) { c.Taps = nil }},
		{"zero factor", func(c *StreamConfig) { c.Interpolation = 0 }},
		{"zero deviation", func(c *StreamConfig) { c.Deviation = 0 }},
		{"zero rate", func(c *StreamConfig) { c.SampleRate = 0 }},
		{"unknown format", func(c *StreamConfig) { c.Format = codec.Format(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStreamConfig(t)
			tt.mutate(&cfg)
			_, err := NewStream(cfg)
			require.ErrorIs(t, err, ErrInvalidStream)
		})
	}
}

func TestStream_OutputLength(t *testing.T) {
	tests := []struct {
		name      string
		inputLen  int
		chunks    int
		outputLen int
	}{
		{"single chunk", 1000, 1, (1000 - testTapsPerPhase + 1) * testFactor},
		{"exact chunks", 2 * DefaultChunkSize, 2, (2*DefaultChunkSize - testTapsPerPhase + 1) * testFactor},
		{"short tail chunk", DefaultChunkSize + 10, 2, (DefaultChunkSize + 10 - testTapsPerPhase + 1) * testFactor},
		{"one window", testTapsPerPhase, 1, testFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStream(testStreamConfig(t))
			require.NoError(t, err)

			out, stats, err := s.Collect(context.Background(), toneInput(tt.inputLen))
			require.NoError(t, err)

			assert.Len(t, out, tt.outputLen)
			assert.Equal(t, tt.chunks, stats.Chunks)
			assert.Equal(t, tt.outputLen, stats.OutputSamples)
			assert.Equal(t, tt.inputLen, stats.InputSamples)
			// The filter history is left behind unflushed.
			assert.Equal(t, testTapsPerPhase-1, stats.Residual)
			assert.False(t, stats.Starved)
		})
	}
}

func TestStream_StarvedFirstChunk(t *testing.T) {
	s, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)

	out, stats, err := s.Collect(context.Background(), toneInput(10))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.True(t, stats.Starved)
	assert.Equal(t, 0, stats.Chunks)
	assert.Equal(t, 10, stats.Residual)
}

// FM output is unit magnitude; after the unity-gain interpolator it stays
// close to it for an in-band input.
func TestStream_InterpolatedMagnitude(t *testing.T) {
	s, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)

	out, _, err := s.Collect(context.Background(), toneInput(2000))
	require.NoError(t, err)
	testutil.AssertUnitMagnitude(t, out, 0.01)
}

func TestStream_SmallChunksMatchDefault(t *testing.T) {
	input := toneInput(3000)

	ref, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)
	want, _, err := ref.Collect(context.Background(), input)
	require.NoError(t, err)

	cfg := testStreamConfig(t)
	cfg.ChunkSize = 100
	cfg.BufferSize = 200
	small, err := NewStream(cfg)
	require.NoError(t, err)
	got, stats, err := small.Collect(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 30, stats.Chunks)
	testutil.AssertComplexInDelta(t, want, got, 1e-6)
}

func TestStream_RunEncodes(t *testing.T) {
	cfg := testStreamConfig(t)
	cfg.Format = codec.FormatS8
	s, err := NewStream(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := s.Run(context.Background(), toneInput(500), &buf)
	require.NoError(t, err)

	assert.Equal(t, stats.OutputSamples*2, buf.Len())
	assert.Equal(t, buf.Len(), stats.Bytes)

	decoded, err := codec.Decode(codec.FormatS8, buf.Bytes())
	require.NoError(t, err)
	testutil.AssertUnitMagnitude(t, decoded, 0.03)
}

func TestStream_Cancelled(t *testing.T) {
	s, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = s.Collect(ctx, toneInput(1000))
	require.ErrorIs(t, err, context.Canceled)
}

type failingWriter struct{}

var errSinkFull = errors.New("sink full")

func (failingWriter) Write([]byte) (int, error) { return 0, errSinkFull }

func TestStream_WriteError(t *testing.T) {
	s, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)

	_, err = s.Run(context.Background(), toneInput(1000), failingWriter{})
	require.ErrorIs(t, err, errSinkFull)
}

// Running twice on the same Stream starts from a clean state.
func TestStream_Reusable(t *testing.T) {
	s, err := NewStream(testStreamConfig(t))
	require.NoError(t, err)

	first, _, err := s.Collect(context.Background(), toneInput(700))
	require.NoError(t, err)
	second, _, err := s.Collect(context.Background(), toneInput(700))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
