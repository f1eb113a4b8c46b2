package pipeline

import (
	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/simd/f64"
)

// FIRInterpolator upsamples complex samples by an integer factor using a
// polyphase decomposition of a prototype lowpass.
//
// Each input window of TapsPerPhase samples produces Factor outputs, one per
// phase, without multiplying the zeros a zero-stuffing upsampler would insert.
type FIRInterpolator struct {
	bank *filter.PolyphaseBank

	// Scratch reused across calls
	re, im           []float64
	phaseRe, phaseIm [][]float64
}

// NewFIRInterpolator builds the polyphase bank for factor and taps.
func NewFIRInterpolator(factor int, taps []float64) (*FIRInterpolator, error) {
	bank, err := filter.NewPolyphaseBank(factor, taps)
	if err != nil {
		return nil, err
	}

	return &FIRInterpolator{
		bank:    bank,
		phaseRe: make([][]float64, factor),
		phaseIm: make([][]float64, factor),
	}, nil
}

// Factor returns the interpolation factor.
func (f *FIRInterpolator) Factor() int {
	return f.bank.Factor
}

// TapsPerPhase returns the window length one output group needs.
func (f *FIRInterpolator) TapsPerPhase() int {
	return f.bank.TapsPerPhase
}

// Interpolate filters every complete window currently held in rb and
// appends Factor outputs per window to out, all phases of window i before
// window i+1. It returns the extended slice and the number of windows
// processed. The buffer is only read; the caller removes the processed
// samples once it has consumed the output.
//
// With fewer than TapsPerPhase samples buffered it returns (out, 0), which
// means more input is needed.
func (f *FIRInterpolator) Interpolate(rb *RingBuffer, out []complex64) ([]complex64, int) {
	ntaps := f.bank.TapsPerPhase
	avail := rb.ReadAvailable()
	if avail < ntaps {
		return out, 0
	}

	f.ensureScratch(avail)
	rb.CopyTo(f.re, f.im)

	windows := avail - ntaps + 1
	for j := range f.bank.Factor {
		f.phaseRe[j] = f.phaseRe[j][:windows]
		f.phaseIm[j] = f.phaseIm[j][:windows]
	}

	// Phases are stored reversed, so a valid correlation is the convolution.
	f64.ConvolveValidMulti(f.phaseRe, f.re[:avail], f.bank.Phases)
	f64.ConvolveValidMulti(f.phaseIm, f.im[:avail], f.bank.Phases)

	out = growComplex(out, windows*f.bank.Factor)
	for i := range windows {
		for j := range f.bank.Factor {
			out = append(out, complex(float32(f.phaseRe[j][i]), float32(f.phaseIm[j][i])))
		}
	}

	return out, windows
}

// Drain interpolates and then removes the processed windows from rb.
func (f *FIRInterpolator) Drain(rb *RingBuffer, out []complex64) ([]complex64, int) {
	out, processed := f.Interpolate(rb, out)
	rb.Remove(processed)
	return out, processed
}

func (f *FIRInterpolator) ensureScratch(n int) {
	if cap(f.re) < n {
		f.re = make([]float64, n)
		f.im = make([]float64, n)
		for j := range f.bank.Factor {
			f.phaseRe[j] = make([]float64, n)
			f.phaseIm[j] = make([]float64, n)
		}
	}
	f.re = f.re[:n]
	f.im = f.im[:n]
	for j := range f.bank.Factor {
		f.phaseRe[j] = f.phaseRe[j][:cap(f.phaseRe[j])]
		f.phaseIm[j] = f.phaseIm[j][:cap(f.phaseIm[j])]
	}
}

func growComplex(s []complex64, n int) []complex64 {
	if cap(s)-len(s) >= n {
		return s
	}
	grown := make([]complex64, len(s), len(s)+n)
	copy(grown, s)
	return grown
}
