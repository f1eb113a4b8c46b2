package pipeline

import (
	"fmt"
	"math"
)

// FMModulator is a phase accumulator that turns a real baseband signal into
// a continuous-phase complex waveform.
//
// The phase is kept in (-π, π] and carried between calls, so feeding the
// input in arbitrary chunks gives the same samples as one call over all of it.
type FMModulator struct {
	sensitivity float64
	phase       float64
}

// NewFMModulator creates a modulator with sensitivity 2π·deviation/sampleRate
// radians per unit of input.
func NewFMModulator(deviation, sampleRate float64) (*FMModulator, error) {
	if deviation <= 0 {
		return nil, fmt.Errorf("%w: deviation %f (must be positive)", ErrInvalidStream, deviation)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %f (must be positive)", ErrInvalidStream, sampleRate)
	}
	return &FMModulator{sensitivity: twoPi * deviation / sampleRate}, nil
}

// Sensitivity returns the phase step in radians for a unit input sample.
func (m *FMModulator) Sensitivity() float64 {
	return m.sensitivity
}

// Phase returns the current accumulator phase.
func (m *FMModulator) Phase() float64 {
	return m.phase
}

// Reset returns the accumulator to zero phase.
func (m *FMModulator) Reset() {
	m.phase = 0
}

// Modulate advances the phase once per input sample and inserts each
// resulting unit-magnitude sample into rb.
func (m *FMModulator) Modulate(input []float32, rb *RingBuffer) {
	for _, s := range input {
		rb.Insert(m.step(s))
	}
}

// ModulateTo is Modulate without a ring buffer: samples are appended to dst.
func (m *FMModulator) ModulateTo(dst []complex64, input []float32) []complex64 {
	dst = growComplex(dst, len(input))
	for _, s := range input {
		dst = append(dst, m.step(s))
	}
	return dst
}

func (m *FMModulator) step(s float32) complex64 {
	m.phase += float64(s) * m.sensitivity

	// Wrap into (-π, π].
	for m.phase > math.Pi {
		m.phase -= twoPi
	}
	for m.phase <= -math.Pi {
		m.phase += twoPi
	}

	sin, cos := math.Sincos(m.phase)
	return complex(float32(cos), float32(sin))
}
