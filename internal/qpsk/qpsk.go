// Package qpsk implements a QPSK modulator with optional rate 1/2
// convolutional coding, root-raised-cosine shaping and a simulated carrier
// offset.
package qpsk

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-baseband/internal/filter"
)

// ErrInvalidConfig is returned for QPSK parameters that cannot run.
var ErrInvalidConfig = errors.New("invalid qpsk configuration")

// Config holds the modulation parameters.
type Config struct {
	SamplesPerSymbol int
	RollOff          float64 // RRC excess bandwidth, (0, 1]
	NumTaps          int     // RRC length
	// CarrierOffset is the injected frequency error in cycles per symbol.
	// Zero disables it.
	CarrierOffset float64
	// Coding enables the K=3 (7, 5) convolutional encoder ahead of mapping.
	Coding bool
}

// DefaultConfig returns 4 samples per symbol, roll-off 0.25, 101 taps and a
// 0.01 carrier offset, with coding enabled.
func DefaultConfig() Config {
	return Config{
		SamplesPerSymbol: 4,
		RollOff:          0.25,
		NumTaps:          101,
		CarrierOffset:    0.01,
		Coding:           true,
	}
}

// Validate checks the shaping parameters.
func (c *Config) Validate() error {
	if c.SamplesPerSymbol < 1 {
		return fmt.Errorf("%w: samples per symbol %d", ErrInvalidConfig, c.SamplesPerSymbol)
	}
	if c.RollOff <= 0 || c.RollOff > 1 {
		return fmt.Errorf("%w: roll-off %f not in (0, 1]", ErrInvalidConfig, c.RollOff)
	}
	if c.NumTaps < 1 {
		return fmt.Errorf("%w: tap count %d", ErrInvalidConfig, c.NumTaps)
	}
	if math.IsNaN(c.CarrierOffset) || math.IsInf(c.CarrierOffset, 0) {
		return fmt.Errorf("%w: carrier offset %f", ErrInvalidConfig, c.CarrierOffset)
	}
	return nil
}

// constellation is indexed by the dibit value 2·b0 + b1.
var constellation = [4]complex128{1 + 1i, 1 - 1i, -1 + 1i, -1 - 1i}

// Convolutional code generators, octal 7 and 5.
const (
	genG1 = 0b111
	genG2 = 0b101
)

// ConvEncode applies the rate 1/2, constraint length 3 code with generators
// 7 and 5 (octal). The register starts at zero and is not flushed, so the
// output is exactly two bits per input bit: the G1 parity, then G2.
func ConvEncode(bits []bool) []bool {
	out := make([]bool, 0, 2*len(bits))
	var reg uint8
	for _, b := range bits {
		reg = (reg << 1) & 0b110
		if b {
			reg |= 1
		}
		out = append(out, parity(reg&genG1), parity(reg&genG2))
	}
	return out
}

func parity(x uint8) bool {
	x ^= x >> 4
	x ^= x >> 2
	x ^= x >> 1
	return x&1 == 1
}

// MapDibits maps consecutive bit pairs onto the constellation: 00→1+j,
// 01→1−j, 10→−1+j, 11→−1−j. An odd trailing bit is paired with a zero.
func MapDibits(bits []bool) []complex128 {
	out := make([]complex128, (len(bits)+1)/2)
	for i := range out {
		idx := 0
		if bits[2*i] {
			idx = 2
		}
		if 2*i+1 < len(bits) && bits[2*i+1] {
			idx++
		}
		out[i] = constellation[idx]
	}
	return out
}

// Modulate returns the shaped baseband for bits. The input is padded to an
// even length before coding.
func Modulate(bits []bool, cfg Config) ([]complex64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(bits) == 0 {
		return []complex64{}, nil
	}

	rrc, err := filter.RRCPulse(cfg.RollOff, cfg.SamplesPerSymbol, cfg.NumTaps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(bits)%2 != 0 {
		bits = append(bits[:len(bits):len(bits)], false)
	}
	if cfg.Coding {
		bits = ConvEncode(bits)
	}

	symbols := MapDibits(bits)
	upsampled := make([]complex128, len(symbols)*cfg.SamplesPerSymbol)
	for i, s := range symbols {
		upsampled[i*cfg.SamplesPerSymbol] = s
	}

	shaped := filter.ConvolveSameComplex(upsampled, rrc)
	if cfg.CarrierOffset != 0 {
		ApplyCarrierOffset(shaped, cfg.CarrierOffset, cfg.SamplesPerSymbol)
	}

	out := make([]complex64, len(shaped))
	for i, s := range shaped {
		out[i] = complex64(s)
	}
	return out, nil
}

// ApplyCarrierOffset rotates samples in place by exp(j·2π·offset·n/sps),
// modelling a local oscillator that is offset cycles per symbol off.
func ApplyCarrierOffset(samples []complex128, offset float64, sps int) {
	w := 2 * math.Pi * offset / float64(sps)
	for n := range samples {
		sin, cos := math.Sincos(w * float64(n))
		samples[n] *= complex(cos, sin)
	}
}
