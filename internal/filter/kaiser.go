// Package filter provides FIR coefficient design for the baseband modulators.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-baseband/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// ErrInvalidParameter is returned when a filter design parameter is out of range.
var ErrInvalidParameter = errors.New("invalid filter parameter")

const (
	// Window normalization
	windowNormalizationFactor = 2.0

	// Kaiser tap-count estimate: a = β/0.1102 + 8.7, n = a·fs/(22·tw)
	tapEstimateBetaDivisor = 0.1102
	tapEstimateOffset      = 8.7
	tapEstimateDivisor     = 22.0

	// DefaultBeta is the Kaiser β used when LowPassParams.Beta is zero.
	DefaultBeta = 7.0

	// Sums smaller than this are treated as 1 during gain normalization.
	gainSumThreshold = 1e-12

	// MaxTaps bounds EstimateTapCount.
	MaxTaps = 1 << 20
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
// Parameters:
//
//	length: Number of samples in the window
//	beta: Kaiser β parameter (0 gives a rectangular window)
//
// Returns:
//
//	Window weights with w[i] = I₀(β·sqrt(1 - (2i/(n-1) - 1)²)) / I₀(β)
//
// The window is symmetric: w[i] = w[length-1-i]
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1.0
		return window
	}

	i0Beta := mathutil.BesselI0(beta)
	span := float64(length - 1)

	for i := range length {
		x := windowNormalizationFactor*float64(i)/span - 1.0
		// Rounding can push 1-x² a hair below zero at the edges.
		arg := math.Max(0, 1.0-x*x)
		window[i] = mathutil.BesselI0(beta*math.Sqrt(arg)) / i0Beta
	}

	return window
}

// EstimateTapCount estimates the filter length needed for a Kaiser-windowed
// lowpass with the given transition width. sampleRate and transitionWidth
// share a unit (Hz, or any normalized rate). The result is always odd so the
// filter has an integer group delay.
func EstimateTapCount(sampleRate, transitionWidth, beta float64) (int, error) {
	if !finite(sampleRate) || !finite(transitionWidth) || !finite(beta) {
		return 0, fmt.Errorf("%w: non-finite tap estimate input (fs %f, tw %f, beta %f)",
			ErrInvalidParameter, sampleRate, transitionWidth, beta)
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("%w: sample rate %f must be positive", ErrInvalidParameter, sampleRate)
	}
	if transitionWidth <= 0 {
		return 0, fmt.Errorf("%w: transition width %f must be positive", ErrInvalidParameter, transitionWidth)
	}
	if beta < 0 {
		return 0, fmt.Errorf("%w: beta %f must be non-negative", ErrInvalidParameter, beta)
	}

	a := beta/tapEstimateBetaDivisor + tapEstimateOffset
	est := math.Floor(a * sampleRate / (tapEstimateDivisor * transitionWidth))
	if est >= MaxTaps {
		return 0, fmt.Errorf("%w: transition width %g at rate %g needs %.0f taps (max %d)",
			ErrInvalidParameter, transitionWidth, sampleRate, est, MaxTaps)
	}
	n := int(est)
	if n%2 == 0 {
		n++
	}
	return n, nil
}

// LowPassParams holds parameters for lowpass filter design.
// SampleRate, Cutoff and TransitionWidth share a unit.
type LowPassParams struct {
	// Gain is the DC gain; taps are rescaled so they sum to it
	Gain float64

	// SampleRate of the signal the filter runs at
	SampleRate float64

	// Cutoff frequency, in (0, SampleRate/2)
	Cutoff float64

	// TransitionWidth sets the filter length via EstimateTapCount
	TransitionWidth float64

	// Beta is the Kaiser window β (DefaultBeta when zero)
	Beta float64
}

// Validate checks if lowpass parameters are valid.
func (p *LowPassParams) Validate() error {
	for _, v := range []float64{p.Gain, p.SampleRate, p.Cutoff, p.TransitionWidth, p.Beta} {
		if !finite(v) {
			return fmt.Errorf("%w: non-finite parameter %f", ErrInvalidParameter, v)
		}
	}
	if p.Gain <= 0 {
		return fmt.Errorf("%w: gain %f (must be positive)", ErrInvalidParameter, p.Gain)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %f (must be positive)", ErrInvalidParameter, p.SampleRate)
	}
	if p.Cutoff <= 0 || p.Cutoff >= p.SampleRate/windowNormalizationFactor {
		return fmt.Errorf("%w: cutoff %f (must be in (0, %f))",
			ErrInvalidParameter, p.Cutoff, p.SampleRate/windowNormalizationFactor)
	}
	if p.TransitionWidth <= 0 {
		return fmt.Errorf("%w: transition width %f (must be positive)", ErrInvalidParameter, p.TransitionWidth)
	}
	if p.Beta < 0 {
		return fmt.Errorf("%w: beta %f (must be non-negative)", ErrInvalidParameter, p.Beta)
	}
	return nil
}

// DesignLowPass designs a Kaiser-windowed sinc lowpass FIR filter.
//
// The center tap is ω₀/π with ω₀ = 2π·cutoff/fs, the others are
// sin(n·ω₀)/(n·π) weighted by the window. The taps are then scaled so that
// they sum to params.Gain.
func DesignLowPass(params LowPassParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	beta := params.Beta
	if beta == 0 {
		beta = DefaultBeta
	}

	numTaps, err := EstimateTapCount(params.SampleRate, params.TransitionWidth, beta)
	if err != nil {
		return nil, err
	}

	window := KaiserWindow(numTaps, beta)
	taps := make([]float64, numTaps)
	center := (numTaps - 1) / 2
	omega := windowNormalizationFactor * math.Pi * params.Cutoff / params.SampleRate

	for i := range numTaps {
		n := float64(i - center)
		if i == center {
			taps[i] = omega / math.Pi * window[i]
			continue
		}
		taps[i] = math.Sin(n*omega) / (n * math.Pi) * window[i]
	}

	sum := f64.Sum(taps)
	if math.Abs(sum) < gainSumThreshold {
		sum = 1.0
	}
	f64.Scale(taps, taps, params.Gain/sum)

	return taps, nil
}
