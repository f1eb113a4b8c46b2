package qpsk

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/go-baseband/internal/testutil"
	"pgregory.net/rapid"
)

func bitsOf(s string) []bool {
	out := make([]bool, len(s))
	for i, c := range s {
		out[i] = c == '1'
	}
	return out
}

func TestConvEncode_ImpulseResponse(t *testing.T) {
	got := ConvEncode(bitsOf("1000"))
	assert.Equal(t, bitsOf("11101100"), got)
}

func TestConvEncode_KnownSequence(t *testing.T) {
	// 1011 → 11 10 00 01 for the (7, 5) code.
	assert.Equal(t, bitsOf("11100001"), ConvEncode(bitsOf("1011")))
}

func TestConvEncode_Length(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := rapid.SliceOf(rapid.Bool()).Draw(t, "bits")
		assert.Len(t, ConvEncode(bits), 2*len(bits))
	})
}

// The code is linear: encoding a XOR b equals the XOR of the encodings.
func TestConvEncode_Linear(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 64).Draw(t, "n")
		a := rapid.SliceOfN(rapid.Bool(), n, n).Draw(t, "a")
		b := rapid.SliceOfN(rapid.Bool(), n, n).Draw(t, "b")

		x := make([]bool, n)
		for i := range x {
			x[i] = a[i] != b[i]
		}
		ea, eb, ex := ConvEncode(a), ConvEncode(b), ConvEncode(x)
		for i := range ex {
			assert.Equal(t, ea[i] != eb[i], ex[i], "bit %d", i)
		}
	})
}

func TestMapDibits(t *testing.T) {
	got := MapDibits(bitsOf("00011011"))
	assert.Equal(t, []complex128{1 + 1i, 1 - 1i, -1 + 1i, -1 - 1i}, got)

	// Odd input pairs the last bit with zero.
	assert.Equal(t, []complex128{-1 + 1i}, MapDibits(bitsOf("1")))
	assert.Empty(t, MapDibits(nil))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero sps", func(c *Config) { c.SamplesPerSymbol = 0 }},
		{"zero roll-off", func(c *Config) { c.RollOff = 0 }},
		{"roll-off above one", func(c *Config) { c.RollOff = 1.5 }},
		{"zero taps", func(c *Config) { c.NumTaps = 0 }},
		{"nan offset", func(c *Config) { c.CarrierOffset = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
			_, err := Modulate(bitsOf("0110"), c)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// With one sample per symbol and a single tap the output is the raw
// constellation.
func TestModulate_Unshaped(t *testing.T) {
	cfg := Config{SamplesPerSymbol: 1, RollOff: 0.25, NumTaps: 1}

	out, err := Modulate(bitsOf("0001101"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []complex64{1 + 1i, 1 - 1i, -1 + 1i, -1 + 1i}, out)
}

func TestModulate_DoesNotModifyInput(t *testing.T) {
	bits := bitsOf("101")
	_, err := Modulate(bits, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, bitsOf("101"), bits)
}

func TestModulate_Length(t *testing.T) {
	tests := []struct {
		name   string
		bits   int
		coding bool
		want   int
	}{
		{"uncoded", 200, false, 100 * 4},
		{"coded doubles symbols", 200, true, 200 * 4},
		{"odd input padded", 201, false, 101 * 4},
		{"shorter than filter", 4, false, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Coding = tt.coding
			out, err := Modulate(make([]bool, tt.bits), cfg)
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
		})
	}
}

// A matched RRC filter recovers the transmitted symbols at the symbol
// instants.
func TestModulate_MatchedFilterRecoversSymbols(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coding = false
	cfg.CarrierOffset = 0

	bits := make([]bool, 128)
	for i := range bits {
		bits[i] = (i*7+i/3)%5 < 2
	}
	symbols := MapDibits(bits)

	out, err := Modulate(bits, cfg)
	require.NoError(t, err)

	shaped := make([]complex128, len(out))
	for i, s := range out {
		shaped[i] = complex128(s)
	}
	rrc, err := filter.RRCPulse(cfg.RollOff, cfg.SamplesPerSymbol, cfg.NumTaps)
	require.NoError(t, err)
	matched := filter.ConvolveSameComplex(shaped, rrc)

	for i, want := range symbols {
		got := matched[i*cfg.SamplesPerSymbol]
		assert.Equal(t, math.Signbit(real(want)), math.Signbit(real(got)), "I of symbol %d", i)
		assert.Equal(t, math.Signbit(imag(want)), math.Signbit(imag(got)), "Q of symbol %d", i)
	}
}

func TestModulate_CarrierOffsetRotates(t *testing.T) {
	bits := bitsOf("0110100111000101")

	clean := DefaultConfig()
	clean.CarrierOffset = 0
	base, err := Modulate(bits, clean)
	require.NoError(t, err)

	cfg := DefaultConfig()
	rotated, err := Modulate(bits, cfg)
	require.NoError(t, err)
	require.Len(t, rotated, len(base))

	w := 2 * math.Pi * cfg.CarrierOffset / float64(cfg.SamplesPerSymbol)
	for n := range base {
		want := complex128(base[n]) * cmplx.Exp(complex(0, w*float64(n)))
		assert.InDelta(t, real(want), float64(real(rotated[n])), testutil.SampleTolerance, "I at %d", n)
		assert.InDelta(t, imag(want), float64(imag(rotated[n])), testutil.SampleTolerance, "Q at %d", n)
	}
}

func TestApplyCarrierOffset_PreservesMagnitude(t *testing.T) {
	samples := []complex128{1, 1i, -2, 3 - 4i}
	ApplyCarrierOffset(samples, 0.25, 1)

	assert.InDelta(t, 1, cmplx.Abs(samples[0]), 1e-12)
	assert.InDelta(t, 5, cmplx.Abs(samples[3]), 1e-12)
	// Quarter turn per sample.
	assert.InDelta(t, -1, real(samples[1]), 1e-12)
	assert.InDelta(t, 2, real(samples[2]), 1e-12)
}
