package filter

import (
	"fmt"
)

// PolyphaseBank is the polyphase decomposition of an interpolation filter.
//
// A prototype of length N is zero-padded to a multiple of the interpolation
// factor L and split into L sub-filters. Sub-filter j holds the prototype taps
// at j, j+L, j+2L, ... stored in reverse order, so that a forward dot product
// against a window of input samples is a convolution with that phase.
//
// The bank is immutable once built.
type PolyphaseBank struct {
	// Phases[j][k] = padded[(TapsPerPhase-1-k)*Factor + j]
	Phases [][]float64

	// Factor is the interpolation factor L (number of phases)
	Factor int

	// TapsPerPhase is len(padded)/Factor
	TapsPerPhase int

	// TotalTaps is the prototype length before padding
	TotalTaps int
}

// NewPolyphaseBank decomposes taps into factor phases.
func NewPolyphaseBank(factor int, taps []float64) (*PolyphaseBank, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: interpolation factor %d (must be at least 1)", ErrInvalidParameter, factor)
	}
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: empty prototype filter", ErrInvalidParameter)
	}

	tapsPerPhase := (len(taps) + factor - 1) / factor

	phases := make([][]float64, factor)
	for j := range factor {
		phases[j] = make([]float64, tapsPerPhase)
	}

	// Padding taps beyond len(taps) stay zero.
	for i, h := range taps {
		phase := i % factor
		tap := i / factor
		phases[phase][tapsPerPhase-1-tap] = h
	}

	return &PolyphaseBank{
		Phases:       phases,
		Factor:       factor,
		TapsPerPhase: tapsPerPhase,
		TotalTaps:    len(taps),
	}, nil
}

// PhaseGain returns the DC gain (tap sum) of each phase. For a lowpass
// designed with gain L every phase should sit close to 1.
func (b *PolyphaseBank) PhaseGain() []float64 {
	gains := make([]float64, b.Factor)
	for j, phase := range b.Phases {
		for _, h := range phase {
			gains[j] += h
		}
	}
	return gains
}
