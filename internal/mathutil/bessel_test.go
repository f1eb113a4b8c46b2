package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-baseband/internal/testutil"
)

// TestBesselI0 tests BesselI0 against known values.
func TestBesselI0(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		expected  float64
		tolerance float64
	}{
		{"Zero", 0.0, 1.0, 1e-15},
		{"Small positive", 0.5, 1.0634833707413236, 1e-12},
		{"One", 1.0, 1.2660658777520082, 1e-12},
		{"Two", 2.0, 2.2795853023360673, 1e-12},
		{"Five", 5.0, 27.239871823604442, 1e-12},
		{"Seven", 7.0, 168.59390851028968, 1e-12},
		{"Ten", 10.0, 2815.716628466254, 1e-12},
		{"Twenty", 20.0, 4.355828255955353e7, 1e-12},
		{"Small negative", -0.5, 1.0634833707413236, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BesselI0(tt.x)
			testutil.AssertRelativeError(t, tt.expected, result, tt.tolerance)
		})
	}
}

// TestBesselI0_AtZero tests I₀(0) = 1 exactly.
func TestBesselI0_AtZero(t *testing.T) {
	assert.Equal(t, 1.0, BesselI0(0), "BesselI0(0) should be exactly 1.0")
}

// TestBesselI0_Symmetry tests I₀(x) = I₀(-x) (even function property).
func TestBesselI0_Symmetry(t *testing.T) {
	for _, x := range []float64{0.1, 1.0, 2.5, 5.0, 10.0} {
		assert.Equal(t, BesselI0(x), BesselI0(-x), "BesselI0 not symmetric at %v", x)
	}
}

// TestBesselI0_Monotonic tests I₀(x) is monotonically increasing for x > 0.
func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.1; x < 15.0; x += 0.1 {
		curr := BesselI0(x)
		assert.Greater(t, curr, prev,
			"BesselI0 not monotonically increasing at x=%v: %v <= %v", x, curr, prev)
		prev = curr
	}
}

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		expectedMin float64
		expectedMax float64
	}{
		{"20dB", 20.0, 0.0, 0.0},
		{"40dB", 40.0, 3.3, 3.4},
		{"60dB", 60.0, 5.6, 5.7},
		{"80dB", 80.0, 7.8, 7.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertInRange(t, KaiserBeta(tt.attenuation), tt.expectedMin, tt.expectedMax)
		})
	}
}

// The default lowpass β of 7 corresponds to roughly 72 dB of stopband rejection.
func TestKaiserAttenuation_Inverse(t *testing.T) {
	assert.InDelta(t, 72.22, KaiserAttenuation(7.0), 0.01)

	for _, att := range []float64{60.0, 80.0, 100.0} {
		assert.InDelta(t, att, KaiserAttenuation(KaiserBeta(att)), 1e-9)
	}
}

func BenchmarkBesselI0(b *testing.B) {
	x := 7.0
	for b.Loop() {
		_ = BesselI0(x)
	}
}
