// Package testutil provides assertions shared by the filter and modulator
// tests.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tolerances for sample-level comparisons.
const (
	MagnitudeTolerance = 1e-5 // |s| of a float32 unit-circle sample
	SampleTolerance    = 1e-6 // per-component I/Q difference
)

// AssertSymmetric checks s[i] == s[n-1-i] for linear-phase taps.
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if !assert.InDelta(t, s[i], s[j], tolerance, "taps not symmetric: s[%d]=%g s[%d]=%g", i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf checks every tap is finite.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "non-finite tap", "s[%d]=%v", i, v)
		}
	}
	return true
}

// AssertDCGain checks that the taps sum to the expected gain.
func AssertDCGain(t *testing.T, taps []float64, want, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range taps {
		sum += c
	}
	return assert.InDelta(t, want, sum, tolerance, "DC gain = %g, want %g", sum, want)
}

// AssertUnitEnergy checks that the squared taps sum to one.
func AssertUnitEnergy(t *testing.T, taps []float64, tolerance float64) bool {
	t.Helper()
	var energy float64
	for _, c := range taps {
		energy += c * c
	}
	return assert.InDelta(t, 1.0, energy, tolerance, "energy = %g, want 1", energy)
}

// AssertCenterIsMax checks that no tap exceeds the one at len/2.
func AssertCenterIsMax(t *testing.T, s []float64) bool {
	t.Helper()
	if len(s) == 0 {
		return assert.Fail(t, "no taps")
	}
	c := len(s) / 2
	for i, v := range s {
		if v > s[c] {
			return assert.Fail(t, "peak is off center", "s[%d]=%g > s[%d]=%g", i, v, c, s[c])
		}
	}
	return true
}

// AssertRelativeError checks |actual-expected|/|expected| <= tolerance,
// falling back to an absolute delta when expected is zero.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance)
	}
	rel := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, rel, tolerance, "relative error %e (expected %g, actual %g)", rel, expected, actual)
}

// AssertOddLength checks for a type I (odd length) filter.
func AssertOddLength(t *testing.T, s []float64) bool {
	t.Helper()
	return assert.Equal(t, 1, len(s)%2, "length %d is not odd", len(s))
}

// AssertUnitMagnitude checks that every sample lies on the unit circle.
func AssertUnitMagnitude(t *testing.T, samples []complex64, tolerance float64) bool {
	t.Helper()
	for i, s := range samples {
		if mag := cmplx.Abs(complex128(s)); math.Abs(mag-1) > tolerance {
			return assert.Fail(t, "sample off unit circle", "|s[%d]| = %f", i, mag)
		}
	}
	return true
}

// AssertComplexInDelta compares two I/Q sequences component-wise.
func AssertComplexInDelta(t *testing.T, expected, actual []complex64, tolerance float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, real(expected[i]), real(actual[i]), tolerance, "I mismatch at %d", i) ||
			!assert.InDelta(t, imag(expected[i]), imag(actual[i]), tolerance, "Q mismatch at %d", i) {
			return false
		}
	}
	return true
}

// AssertInRange checks minVal <= value <= maxVal.
func AssertInRange(t *testing.T, value, minVal, maxVal float64) bool {
	t.Helper()
	return assert.True(t, value >= minVal && value <= maxVal, "%g outside [%g, %g]", value, minVal, maxVal)
}
