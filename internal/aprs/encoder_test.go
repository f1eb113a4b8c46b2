package aprs

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-baseband/internal/ax25"
	"github.com/tphakala/go-baseband/internal/codec"
	"github.com/tphakala/go-baseband/internal/testutil"
)

// afskTapsPerPhase is the per-phase length of the ×50 lowpass.
const afskTapsPerPhase = 33

var testPacket = Packet{Source: "TEST-1", Info: "Hello"}

func shortConfig(format codec.Format) EncoderConfig {
	cfg := DefaultEncoderConfig()
	cfg.AFSK.Silence = 20 * time.Millisecond
	cfg.Format = format
	return cfg
}

func TestNewEncoder_Defaults(t *testing.T) {
	enc, err := NewEncoder(DefaultEncoderConfig())
	require.NoError(t, err)
	assert.InDelta(t, 2.4e6, enc.OutputRate(), 1e-6)
}

func TestNewEncoder_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *EncoderConfig)
	}{
		{"zero interpolation", func(c *EncoderConfig) { c.Interpolation = 0 }},
		{"zero deviation", func(c *EncoderConfig) { c.Deviation = 0 }},
		{"bad afsk", func(c *EncoderConfig) { c.AFSK.BaudRate = 0 }},
		{"buffer too small", func(c *EncoderConfig) { c.BufferSize = c.ChunkSize }},
		{"unknown format", func(c *EncoderConfig) { c.Format = codec.Format(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEncoderConfig()
			tt.mutate(&cfg)
			_, err := NewEncoder(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewEncoder_UnknownFormat(t *testing.T) {
	cfg := DefaultEncoderConfig()
	cfg.Format = codec.Format(-1)
	_, err := NewEncoder(cfg)
	require.ErrorIs(t, err, codec.ErrUnknownFormat)
}

func TestEncoder_BitsUseDefaultDestination(t *testing.T) {
	enc, err := NewEncoder(shortConfig(codec.FormatS8))
	require.NoError(t, err)

	levels, err := enc.Bits(testPacket)
	require.NoError(t, err)

	f, err := ax25.DecodeFrameNRZI(levels)
	require.NoError(t, err)
	assert.Equal(t, DefaultDestination, f.Destination.Call)
	assert.Equal(t, "TEST-1>APRS:Hello", f.String())
}

func TestEncoder_InvalidCallsign(t *testing.T) {
	enc, err := NewEncoder(shortConfig(codec.FormatS8))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = enc.Encode(context.Background(), Packet{Source: "N0CALL-99"}, &buf)
	require.ErrorIs(t, err, ax25.ErrInvalidSSID)
	assert.Zero(t, buf.Len())
}

func TestEncoder_EncodeS8Length(t *testing.T) {
	enc, err := NewEncoder(shortConfig(codec.FormatS8))
	require.NoError(t, err)

	audio, err := enc.Audio(testPacket)
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := enc.Encode(context.Background(), testPacket, &buf)
	require.NoError(t, err)

	wantSamples := (len(audio) - afskTapsPerPhase + 1) * 50
	assert.Equal(t, wantSamples, stats.OutputSamples)
	assert.Equal(t, 2*wantSamples, buf.Len())
	assert.Equal(t, afskTapsPerPhase-1, stats.Residual)
}

func TestEncoder_EncodePCMWritesAudio(t *testing.T) {
	enc, err := NewEncoder(shortConfig(codec.FormatPCM))
	require.NoError(t, err)

	audio, err := enc.Audio(testPacket)
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := enc.Encode(context.Background(), testPacket, &buf)
	require.NoError(t, err)

	assert.Equal(t, codec.AppendAudio(nil, audio), buf.Bytes())
	assert.Equal(t, len(audio), stats.OutputSamples)
	assert.Equal(t, 4*len(audio), stats.Bytes)
}

func TestEncoder_SamplesAreUnitMagnitude(t *testing.T) {
	enc, err := NewEncoder(shortConfig(codec.FormatF32))
	require.NoError(t, err)

	samples, err := enc.Samples(context.Background(), testPacket)
	require.NoError(t, err)
	require.NotEmpty(t, samples)
	testutil.AssertUnitMagnitude(t, samples, 0.01)
}

func TestEncoder_Cancelled(t *testing.T) {
	enc, err := NewEncoder(shortConfig(codec.FormatS8))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = enc.Encode(ctx, testPacket, &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}
