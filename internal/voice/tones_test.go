package voice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeTones_Layout(t *testing.T) {
	cfg := DefaultToneConfig()
	a, err := SynthesizeTones("HI!", cfg)
	require.NoError(t, err)

	const beep, gap = 1600, 400
	require.Len(t, a.Samples, 3*(beep+gap))
	assert.Equal(t, cfg.SampleRate, a.SampleRate)

	for c := range 3 {
		start := c * (beep + gap)
		assert.Zero(t, a.Samples[start], "tone restarts at zero phase")
		assert.InDelta(t, cfg.Volume*math.Sin(2*math.Pi*800/8000), a.Samples[start+1], 1e-6)
		for i := start + beep; i < start+beep+gap; i++ {
			require.Zero(t, a.Samples[i], "gap sample %d", i)
		}
	}
}

func TestSynthesizeTones_Peak(t *testing.T) {
	a, err := SynthesizeTones("A", DefaultToneConfig())
	require.NoError(t, err)

	var peak float32
	for _, s := range a.Samples {
		peak = max(peak, s)
	}
	// 800 Hz at 8 kHz never samples the crest; the nearest points are at 0.4π.
	assert.InDelta(t, 0.5*math.Sin(0.4*math.Pi), peak, 1e-6)
}

func TestSynthesizeTones_Empty(t *testing.T) {
	a, err := SynthesizeTones("", DefaultToneConfig())
	require.NoError(t, err)
	assert.Empty(t, a.Samples)
}

func TestToneConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ToneConfig)
	}{
		{"zero rate", func(c *ToneConfig) { c.SampleRate = 0 }},
		{"tone above nyquist", func(c *ToneConfig) { c.ToneHz = 5000 }},
		{"zero duration", func(c *ToneConfig) { c.CharDuration = 0 }},
		{"loud", func(c *ToneConfig) { c.Volume = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultToneConfig()
			tt.mutate(&cfg)
			_, err := SynthesizeTones("x", cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
