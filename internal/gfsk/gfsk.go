// Package gfsk implements Gaussian frequency-shift keying straight to
// complex baseband. The Gaussian-shaped frequency trajectory is integrated
// into phase, so no separate FM stage is involved.
package gfsk

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/simd/f64"
)

// ErrInvalidConfig is returned for GFSK parameters that cannot run.
var ErrInvalidConfig = errors.New("invalid gfsk configuration")

const twoPi = 2 * math.Pi

// Config holds the modulation parameters.
type Config struct {
	BaudRate   int     // symbols per second
	SampleRate int     // output samples per second
	Deviation  float64 // peak frequency deviation in Hz
	BT         float64 // Gaussian bandwidth-time product
}

// DefaultConfig returns 1200 baud at 48 kHz with 750 Hz deviation and BT 0.3.
func DefaultConfig() Config {
	return Config{
		BaudRate:   1200,
		SampleRate: 48000,
		Deviation:  750,
		BT:         0.3,
	}
}

// Validate checks that every parameter is positive and that a symbol spans
// at least one sample.
func (c *Config) Validate() error {
	if c.BaudRate <= 0 || c.SampleRate <= 0 {
		return fmt.Errorf("%w: baud %d and sample rate %d must be positive", ErrInvalidConfig, c.BaudRate, c.SampleRate)
	}
	if c.Deviation <= 0 {
		return fmt.Errorf("%w: deviation %f must be positive", ErrInvalidConfig, c.Deviation)
	}
	if c.BT <= 0 {
		return fmt.Errorf("%w: BT %f must be positive", ErrInvalidConfig, c.BT)
	}
	if c.SamplesPerSymbol() < 1 {
		return fmt.Errorf("%w: sample rate %d below baud %d", ErrInvalidConfig, c.SampleRate, c.BaudRate)
	}
	return nil
}

// SamplesPerSymbol returns floor(SampleRate / BaudRate).
func (c *Config) SamplesPerSymbol() int {
	if c.BaudRate <= 0 {
		return 0
	}
	return c.SampleRate / c.BaudRate
}

// Modulate returns SamplesPerSymbol output samples per bit for the whole
// bit sequence.
func Modulate(bits []bool, cfg Config) ([]complex64, error) {
	m, err := NewModulator(cfg)
	if err != nil {
		return nil, err
	}
	out := make([]complex64, 0, len(bits)*m.sps)
	out = m.Write(out, bits)
	return m.Flush(out), nil
}

// Modulator is a streaming GFSK modulator. Feeding bits through any
// sequence of Write calls followed by Flush produces exactly the samples
// Modulate produces for their concatenation.
//
// The Gaussian filter is centered, so each Write holds back the last half
// pulse of output until the following symbols arrive. Flush releases it,
// treating the signal as zero past the end.
type Modulator struct {
	sps      int
	reversed []float64 // pulse, time reversed
	lag      int       // centering offset of the same-length convolution
	delta    float64   // phase step per unit of filtered symbol

	window []float64
	phase  float64
}

// NewModulator validates cfg and designs the Gaussian pulse.
func NewModulator(cfg Config) (*Modulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sps := cfg.SamplesPerSymbol()
	pulse, err := filter.GaussianPulse(cfg.BT, sps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	reversed := make([]float64, len(pulse))
	for i, h := range pulse {
		reversed[len(pulse)-1-i] = h
	}

	m := &Modulator{
		sps:      sps,
		reversed: reversed,
		lag:      (len(pulse) - 1) / 2,
		delta:    twoPi * cfg.Deviation / float64(cfg.SampleRate),
	}
	m.Reset()
	return m, nil
}

// SamplesPerSymbol returns the number of output samples per bit.
func (m *Modulator) SamplesPerSymbol() int {
	return m.sps
}

// Phase returns the accumulated phase in (-π, π].
func (m *Modulator) Phase() float64 {
	return m.phase
}

// Reset clears the filter history and phase.
func (m *Modulator) Reset() {
	m.phase = 0
	// The leading zeros stand in for the signal before the first symbol.
	m.window = append(m.window[:0], make([]float64, len(m.reversed)-1-m.lag)...)
}

// Write appends the samples that bits make available to dst.
func (m *Modulator) Write(dst []complex64, bits []bool) []complex64 {
	for _, b := range bits {
		level := -1.0
		if b {
			level = 1
		}
		for range m.sps {
			m.window = append(m.window, level)
		}
	}
	return m.drain(dst)
}

// Flush appends the held-back samples and resets the filter history. The
// phase carries over.
func (m *Modulator) Flush(dst []complex64) []complex64 {
	m.window = append(m.window, make([]float64, m.lag)...)
	dst = m.drain(dst)

	phase := m.phase
	m.Reset()
	m.phase = phase
	return dst
}

func (m *Modulator) drain(dst []complex64) []complex64 {
	taps := len(m.reversed)
	n := len(m.window) - taps + 1
	if n <= 0 {
		return dst
	}

	for i := range n {
		g := f64.DotProduct(m.window[i:i+taps], m.reversed)
		m.phase = wrapPhase(m.phase + g*m.delta)
		sin, cos := math.Sincos(m.phase)
		dst = append(dst, complex(float32(cos), float32(sin)))
	}

	keep := copy(m.window, m.window[n:])
	m.window = m.window[:keep]
	return dst
}

// wrapPhase folds p into (-π, π] by whole turns.
func wrapPhase(p float64) float64 {
	for p > math.Pi {
		p -= twoPi
	}
	for p <= -math.Pi {
		p += twoPi
	}
	return p
}
