package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// GaussianPulse returns the Gaussian pulse-shaping taps used by GFSK.
//
// The pulse spans one symbol: samplesPerSymbol points spaced evenly over
// [-0.5, 0.5), h(t) = exp(-0.5·(t/σ)²) with σ = sqrt(ln 2)/(2π·bt).
// Taps are normalized to unit sum so filtering preserves the symbol level.
func GaussianPulse(bt float64, samplesPerSymbol int) ([]float64, error) {
	if bt <= 0 {
		return nil, fmt.Errorf("%w: bandwidth-time product %f (must be positive)", ErrInvalidParameter, bt)
	}
	if samplesPerSymbol < 1 {
		return nil, fmt.Errorf("%w: samples per symbol %d (must be at least 1)", ErrInvalidParameter, samplesPerSymbol)
	}

	sigma := math.Sqrt(math.Ln2) / (2 * math.Pi * bt)
	step := 1.0 / float64(samplesPerSymbol)
	taps := make([]float64, samplesPerSymbol)

	for i := range taps {
		t := -0.5 + float64(i)*step
		taps[i] = math.Exp(-0.5 * (t / sigma) * (t / sigma))
	}

	f64.Scale(taps, taps, 1.0/f64.Sum(taps))
	return taps, nil
}

// RRCPulse returns root-raised-cosine taps for roll-off beta at sps samples
// per symbol. Tap i sits at t = i - nTaps/2 samples. The removable
// singularities at t = 0 and |t| = sps/(4β) use their analytic limits.
// Taps are normalized to unit energy.
func RRCPulse(beta float64, sps, nTaps int) ([]float64, error) {
	if beta <= 0 || beta > 1 {
		return nil, fmt.Errorf("%w: roll-off %f (must be in (0, 1])", ErrInvalidParameter, beta)
	}
	if sps < 1 {
		return nil, fmt.Errorf("%w: samples per symbol %d (must be at least 1)", ErrInvalidParameter, sps)
	}
	if nTaps < 1 {
		return nil, fmt.Errorf("%w: tap count %d (must be at least 1)", ErrInvalidParameter, nTaps)
	}

	taps := make([]float64, nTaps)
	fsps := float64(sps)
	edge := fsps / (4 * beta)

	for i := range taps {
		t := float64(i - nTaps/2)

		switch {
		case t == 0:
			taps[i] = 1 + beta*(4/math.Pi-1)
		case math.Abs(t) == edge:
			taps[i] = beta / math.Sqrt2 * ((1+2/math.Pi)*math.Sin(math.Pi/(4*beta)) +
				(1-2/math.Pi)*math.Cos(math.Pi/(4*beta)))
		default:
			x := 4 * beta * t / fsps
			num := math.Sin(math.Pi*t*(1-beta)/fsps) + x*math.Cos(math.Pi*t*(1+beta)/fsps)
			den := math.Pi * t / fsps * (1 - x*x)
			taps[i] = num / den
		}
	}

	energy := f64.DotProduct(taps, taps)
	f64.Scale(taps, taps, 1/math.Sqrt(energy))
	return taps, nil
}
