package filter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	defaultResponsePoints = 512

	minMagnitude = 1e-10 // Avoid log(0)
	dbMultiplier = 20.0  // 20*log10 for magnitude
)

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// FrequencyResponse evaluates the response of an FIR filter at numPoints+1
// evenly spaced frequencies from DC to Nyquist.
//
// The taps are zero-padded to an FFT length of at least 2·numPoints, so the
// frequency grid is exact and the result matches a direct DTFT evaluation.
func FrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	fftLen := 2 * numPoints
	// Longer filters need a longer transform; the extra bins are decimated.
	stride := 1
	for fftLen < len(coeffs) {
		fftLen *= 2
		stride *= 2
	}

	padded := make([]float64, fftLen)
	copy(padded, coeffs)

	fft := fourier.NewFFT(fftLen)
	spectrum := fft.Coefficients(nil, padded)

	response := FilterResponse{
		Frequencies: make([]float64, numPoints+1),
		Magnitude:   make([]float64, numPoints+1),
		Phase:       make([]float64, numPoints+1),
	}

	for k := range numPoints + 1 {
		bin := spectrum[k*stride]
		response.Frequencies[k] = float64(k) / float64(2*numPoints)
		response.Magnitude[k] = cmplx.Abs(bin)
		response.Phase[k] = cmplx.Phase(bin)
	}

	return response
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}

// StopbandPeakDB returns the highest response level in dB at or above
// stopbandStart (normalized frequency, 0 to 0.5), relative to the DC gain.
func StopbandPeakDB(resp FilterResponse, stopbandStart float64) float64 {
	if len(resp.Magnitude) == 0 {
		return math.Inf(-1)
	}
	dc := resp.Magnitude[0]
	if dc < minMagnitude {
		dc = minMagnitude
	}

	peak := math.Inf(-1)
	for k, f := range resp.Frequencies {
		if f < stopbandStart {
			continue
		}
		peak = math.Max(peak, MagnitudeDB(resp.Magnitude[k]/dc))
	}
	return peak
}
