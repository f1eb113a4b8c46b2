// Package mathutil provides the special functions used by filter design.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero: I₀(x).
// This function is used in Kaiser window calculation for filter design.
//
// The implementation sums the power series
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// and stops once the term just added is no larger than besselEpsilon times the
// running sum.
func BesselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	y := x / halfDivisor
	y *= y

	for n := 1.0; term > besselEpsilon*sum; n++ {
		term *= y / (n * n)
		sum += term
	}
	return sum
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels.
//
// Formula from Kaiser & Schafer:
//   - For att > 50 dB: β = 0.1102 * (att - 8.7)
//   - For 21 dB ≤ att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - For att < 21 dB: β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// KaiserAttenuation estimates the stopband attenuation achieved by a
// Kaiser window with the given β parameter.
//
// This is the inverse of the high-attenuation branch of KaiserBeta and the
// same expression the tap-count estimate is built on:
//
//	att ≈ 8.7 + β / 0.1102
func KaiserAttenuation(beta float64) float64 {
	return kaiserBetaHighOffset + beta/kaiserBetaHighCoeff1
}
