package filter

import (
	"github.com/tphakala/simd/f64"
)

// ConvolveSame returns the linear convolution of signal and kernel trimmed to
// max(len(signal), len(kernel)) samples and centered on the full result,
// matching numpy's mode='same'.
//
// The full convolution is computed as a valid correlation of the zero-padded
// signal with the reversed kernel, which maps directly onto f64.ConvolveValid.
func ConvolveSame(signal, kernel []float64) []float64 {
	n, m := len(signal), len(kernel)
	if n == 0 || m == 0 {
		return []float64{}
	}

	outLen := max(n, m)
	offset := (min(n, m) - 1) / 2

	// padded[k] = signal[k-(m-1)], zero outside the signal.
	padded := make([]float64, n+2*(m-1))
	copy(padded[m-1:], signal)

	reversed := make([]float64, m)
	for i, h := range kernel {
		reversed[m-1-i] = h
	}

	out := make([]float64, outLen)
	f64.ConvolveValid(out, padded[offset:offset+outLen+m-1], reversed)
	return out
}

// ConvolveSameComplex applies ConvolveSame to the I and Q components of a
// complex signal with a real kernel.
func ConvolveSameComplex(signal []complex128, kernel []float64) []complex128 {
	re := make([]float64, len(signal))
	im := make([]float64, len(signal))
	for i, s := range signal {
		re[i] = real(s)
		im[i] = imag(s)
	}

	fre := ConvolveSame(re, kernel)
	fim := ConvolveSame(im, kernel)

	out := make([]complex128, len(fre))
	for i := range out {
		out[i] = complex(fre[i], fim[i])
	}
	return out
}
