// Package aprs turns APRS packets into Bell 202 AFSK audio and FM baseband.
package aprs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned for AFSK or encoder settings that cannot run.
var ErrInvalidConfig = errors.New("invalid aprs configuration")

const twoPi = 2 * math.Pi

// AFSKConfig describes the audio tone generator.
type AFSKConfig struct {
	SampleRate int     // audio samples per second
	BaudRate   int     // bits per second
	MarkHz     float64 // tone for a one
	SpaceHz    float64 // tone for a zero
	Amplitude  float64
	Silence    time.Duration // padding before and after the tones
}

// DefaultAFSKConfig returns Bell 202 settings at 48 kHz.
func DefaultAFSKConfig() AFSKConfig {
	return AFSKConfig{
		SampleRate: 48000,
		BaudRate:   1200,
		MarkHz:     1200,
		SpaceHz:    2200,
		Amplitude:  0.5,
		Silence:    500 * time.Millisecond,
	}
}

// Validate checks that the rates and tones are usable.
func (c *AFSKConfig) Validate() error {
	if c.SampleRate <= 0 || c.BaudRate <= 0 {
		return fmt.Errorf("%w: sample rate %d and baud %d must be positive",
			ErrInvalidConfig, c.SampleRate, c.BaudRate)
	}
	if c.SampleRate < c.BaudRate {
		return fmt.Errorf("%w: sample rate %d below baud %d", ErrInvalidConfig, c.SampleRate, c.BaudRate)
	}
	nyquist := float64(c.SampleRate) / 2
	if c.MarkHz <= 0 || c.SpaceHz <= 0 || c.MarkHz >= nyquist || c.SpaceHz >= nyquist {
		return fmt.Errorf("%w: tones %.0f/%.0f Hz outside (0, %.0f)",
			ErrInvalidConfig, c.MarkHz, c.SpaceHz, nyquist)
	}
	if c.Silence < 0 {
		return fmt.Errorf("%w: negative silence %v", ErrInvalidConfig, c.Silence)
	}
	return nil
}

// SamplesPerBit returns the integer number of audio samples per bit.
func (c *AFSKConfig) SamplesPerBit() int {
	return c.SampleRate / c.BaudRate
}

// SilenceSamples returns the padding length on each side of the tones.
func (c *AFSKConfig) SilenceSamples() int {
	return int(c.Silence.Seconds() * float64(c.SampleRate))
}

// AudioLength returns the number of samples GenerateAFSK produces for n bits.
func (c *AFSKConfig) AudioLength(n int) int {
	return 2*c.SilenceSamples() + n*c.SamplesPerBit()
}

// GenerateAFSK renders bits as a phase-continuous sine at the mark or space
// tone, framed by silence. The phase runs across bit boundaries.
func GenerateAFSK(bits []bool, cfg AFSKConfig) []float32 {
	silence := cfg.SilenceSamples()
	spb := cfg.SamplesPerBit()
	out := make([]float32, cfg.AudioLength(len(bits)))

	rate := float64(cfg.SampleRate)
	markInc := twoPi * cfg.MarkHz / rate
	spaceInc := twoPi * cfg.SpaceHz / rate

	n := silence
	phase := 0.0
	for _, b := range bits {
		inc := spaceInc
		if b {
			inc = markInc
		}
		for range spb {
			out[n] = float32(math.Sin(phase) * cfg.Amplitude)
			n++
			phase += inc
			if phase > twoPi {
				phase -= twoPi
			}
		}
	}
	return out
}
