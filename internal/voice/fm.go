package voice

import (
	"fmt"

	"github.com/tphakala/go-baseband/internal/pipeline"
)

// FMConfig describes the narrowband FM output.
type FMConfig struct {
	SampleRate int     // baseband rate the audio is resampled to
	Deviation  float64 // peak deviation in Hz for a full-scale sample
	Resampler  ResampleMode
}

// DefaultFMConfig returns 240 kHz baseband with 5 kHz deviation.
func DefaultFMConfig() FMConfig {
	return FMConfig{SampleRate: 240000, Deviation: 5000}
}

// Validate checks the FM parameters.
func (c *FMConfig) Validate() error {
	if c.SampleRate <= 0 || c.Deviation <= 0 {
		return fmt.Errorf("%w: sample rate %d and deviation %f must be positive",
			ErrInvalidConfig, c.SampleRate, c.Deviation)
	}
	if _, ok := resampleModeNames[c.Resampler]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Resampler)
	}
	return nil
}

// Modulate clips a to [-1, 1], resamples it to the baseband rate and
// frequency modulates it.
func Modulate(a *Audio, cfg FMConfig) ([]complex64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if a.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: audio sample rate %d", ErrInvalidConfig, a.SampleRate)
	}

	clipped := make([]float32, len(a.Samples))
	for i, s := range a.Samples {
		clipped[i] = clamp(s)
	}
	audio, err := ResampleWith(cfg.Resampler, clipped, a.SampleRate, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	fm, err := pipeline.NewFMModulator(cfg.Deviation, float64(cfg.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return fm.ModulateTo(make([]complex64, 0, len(audio)), audio), nil
}
