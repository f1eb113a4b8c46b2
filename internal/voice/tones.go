package voice

import (
	"fmt"
	"math"
)

// gapFraction is the silence after each beep relative to its length.
const gapFraction = 0.25

// ToneConfig controls SynthesizeTones.
type ToneConfig struct {
	SampleRate   int
	ToneHz       float64
	CharDuration float64 // seconds of tone per character
	Volume       float64
}

// DefaultToneConfig returns an 800 Hz beep of 0.2 s per character at 8 kHz.
func DefaultToneConfig() ToneConfig {
	return ToneConfig{
		SampleRate:   8000,
		ToneHz:       800,
		CharDuration: 0.2,
		Volume:       0.5,
	}
}

// Validate checks the tone parameters.
func (c *ToneConfig) Validate() error {
	if c.SampleRate <= 0 || c.CharDuration <= 0 {
		return fmt.Errorf("%w: sample rate %d and duration %f must be positive",
			ErrInvalidConfig, c.SampleRate, c.CharDuration)
	}
	if c.ToneHz <= 0 || c.ToneHz >= float64(c.SampleRate)/2 {
		return fmt.Errorf("%w: tone %f Hz outside (0, %d)", ErrInvalidConfig, c.ToneHz, c.SampleRate/2)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume %f not in [0, 1]", ErrInvalidConfig, c.Volume)
	}
	return nil
}

// SynthesizeTones renders text as one beep per character, each followed by a
// silent gap. The tone restarts at zero phase for every character.
func SynthesizeTones(text string, cfg ToneConfig) (*Audio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rate := float64(cfg.SampleRate)
	beep := int(rate * cfg.CharDuration)
	gap := int(rate * cfg.CharDuration * gapFraction)

	chars := []rune(text)
	samples := make([]float32, 0, len(chars)*(beep+gap))
	for range chars {
		for i := range beep {
			samples = append(samples, float32(cfg.Volume*math.Sin(2*math.Pi*cfg.ToneHz*float64(i)/rate)))
		}
		samples = append(samples, make([]float32, gap)...)
	}

	return &Audio{Samples: samples, SampleRate: cfg.SampleRate}, nil
}
