package voice

import (
	"fmt"
	"strings"

	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-baseband/internal/filter"
)

// ResampleMode selects how audio is converted to the baseband rate.
type ResampleMode int

const (
	// ResamplePolyphase runs a Kaiser-windowed lowpass as a rational L/M
	// polyphase filter.
	ResamplePolyphase ResampleMode = iota

	// ResampleLinear interpolates between the two neighbouring samples.
	// Spectral images of the input pass through unattenuated.
	ResampleLinear
)

// Anti-imaging lowpass, relative to the lower of the two rates.
const (
	resampleCutoff     = 0.45
	resampleTransition = 0.1
)

var resampleModeNames = map[ResampleMode]string{
	ResamplePolyphase: "polyphase",
	ResampleLinear:    "linear",
}

// String returns the configuration name of the mode.
func (m ResampleMode) String() string {
	if name, ok := resampleModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ResampleMode(%d)", int(m))
}

// ParseResampleMode maps "polyphase" or "linear" to a mode. The empty
// string selects ResamplePolyphase.
func ParseResampleMode(name string) (ResampleMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "polyphase":
		return ResamplePolyphase, nil
	case "linear":
		return ResampleLinear, nil
	default:
		return 0, fmt.Errorf("%w: resampler %q (want polyphase or linear)", ErrInvalidConfig, name)
	}
}

// Resample converts samples between rates with the polyphase filter.
func Resample(samples []float32, from, to int) ([]float32, error) {
	return ResampleWith(ResamplePolyphase, samples, from, to)
}

// ResampleWith converts samples from one rate to another. The output has
// floor(len·to/from) samples in either mode, and output k sits at input
// time k·from/to.
func ResampleWith(mode ResampleMode, samples []float32, from, to int) ([]float32, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("%w: resample %d Hz to %d Hz", ErrInvalidConfig, from, to)
	}
	if from == to || len(samples) == 0 {
		return append([]float32(nil), samples...), nil
	}

	switch mode {
	case ResamplePolyphase:
		return resamplePolyphase(samples, from, to)
	case ResampleLinear:
		return resampleLinear(samples, from, to), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, mode)
	}
}

// resamplePolyphase upsamples by L = to/g, filters and keeps every M-th
// sample (M = from/g), evaluating only the phase each output lands on. The
// filter delay is taken out so output k lines up with input time k·M/L.
func resamplePolyphase(samples []float32, from, to int) ([]float32, error) {
	g := gcd(from, to)
	up, down := to/g, from/g
	low := float64(min(from, to))

	taps, err := filter.DesignLowPass(filter.LowPassParams{
		Gain:            float64(up),
		SampleRate:      float64(from) * float64(up),
		Cutoff:          resampleCutoff * low,
		TransitionWidth: resampleTransition * low,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: resample %d Hz to %d Hz: %w", ErrInvalidConfig, from, to, err)
	}
	bank, err := filter.NewPolyphaseBank(up, taps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	n := len(samples)
	outLen := n * to / from
	if outLen == 0 {
		return []float32{}, nil
	}
	tpp := bank.TapsPerPhase
	delay := (len(taps) - 1) / 2

	// Input i lives at x[tpp-1+i]; the window ending at input i is x[i : i+tpp].
	lastBase := ((outLen-1)*down + delay) / up
	x := make([]float64, max(tpp-1+n, lastBase+tpp))
	for i, s := range samples {
		x[tpp-1+i] = float64(s)
	}

	out := make([]float32, outLen)
	for k := range out {
		pos := k*down + delay
		base := pos / up
		out[k] = float32(f64.DotProduct(bank.Phases[pos%up], x[base:base+tpp]))
	}
	return out, nil
}

// resampleLinear places output k at input position k·len/outLen; positions
// past the last sample hold it.
func resampleLinear(samples []float32, from, to int) []float32 {
	n := len(samples)
	outLen := int(float64(n) * float64(to) / float64(from))
	out := make([]float32, outLen)
	if outLen == 0 {
		return out
	}
	step := float64(n) / float64(outLen)
	last := n - 1

	for k := range out {
		pos := float64(k) * step
		i := int(pos)
		if i >= last {
			out[k] = samples[last]
			continue
		}
		frac := pos - float64(i)
		out[k] = float32(float64(samples[i]) + frac*float64(samples[i+1]-samples[i]))
	}
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
