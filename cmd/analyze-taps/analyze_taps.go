// Command analyze-taps prints the design of the pulse shaping and
// interpolation filters: tap count, polyphase DC gain and stopband level.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/go-baseband/internal/mathutil"
)

const (
	// Interpolation lowpass defaults (APRS ×50 chain)
	defaultFactor     = 50
	defaultCutoff     = 0.45
	defaultTransition = 0.1

	// Pulse defaults
	defaultBT       = 0.3
	defaultSPS      = 40
	defaultRollOff  = 0.25
	defaultRRCTaps  = 101
	defaultQPSKSPS  = 4
	responsePoints  = 2048
	maxPhasesToShow = 5
)

type options struct {
	kind       string
	factor     int
	cutoff     float64
	transition float64
	beta       float64
	atten      float64
	bt         float64
	sps        int
	rollOff    float64
	taps       int
}

func main() {
	opts := options{}
	pflag.StringVarP(&opts.kind, "kind", "k", "lowpass", "Filter to analyze: lowpass, gaussian or rrc.")
	pflag.IntVarP(&opts.factor, "factor", "L", defaultFactor, "Interpolation factor (lowpass).")
	pflag.Float64Var(&opts.cutoff, "cutoff", defaultCutoff, "Cutoff in input-rate units (lowpass).")
	pflag.Float64Var(&opts.transition, "transition", defaultTransition, "Transition width in input-rate units (lowpass).")
	pflag.Float64Var(&opts.beta, "beta", 0, "Kaiser beta, 0 for the default (lowpass).")
	pflag.Float64Var(&opts.atten, "attenuation", 0, "Derive the Kaiser beta from a stopband attenuation in dB (lowpass).")
	pflag.Float64Var(&opts.bt, "bt", defaultBT, "Bandwidth-time product (gaussian).")
	pflag.IntVar(&opts.sps, "sps", 0, "Samples per symbol (gaussian, rrc).")
	pflag.Float64Var(&opts.rollOff, "roll-off", defaultRollOff, "Roll-off (rrc).")
	pflag.IntVar(&opts.taps, "taps", defaultRRCTaps, "Tap count (rrc).")
	pflag.Parse()

	if err := analyze(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "analyze-taps: %v\n", err)
		os.Exit(1)
	}
}

var errUnknownKind = errors.New("unknown filter kind")

func analyze(w io.Writer, opts options) error {
	switch strings.ToLower(opts.kind) {
	case "lowpass":
		return analyzeLowPass(w, opts)
	case "gaussian":
		sps := opts.sps
		if sps == 0 {
			sps = defaultSPS
		}
		taps, err := filter.GaussianPulse(opts.bt, sps)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "=== Gaussian pulse (BT %.2f, %d samples/symbol) ===\n", opts.bt, sps)
		printTaps(w, taps)
		return nil
	case "rrc":
		sps := opts.sps
		if sps == 0 {
			sps = defaultQPSKSPS
		}
		taps, err := filter.RRCPulse(opts.rollOff, sps, opts.taps)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "=== RRC pulse (roll-off %.2f, %d samples/symbol, %d taps) ===\n", opts.rollOff, sps, opts.taps)
		printTaps(w, taps)
		var energy float64
		for _, h := range taps {
			energy += h * h
		}
		fmt.Fprintf(w, "  Energy: %.10f\n", energy)
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, opts.kind)
	}
}

func analyzeLowPass(w io.Writer, opts options) error {
	factor := float64(opts.factor)
	beta := opts.beta
	if beta == 0 && opts.atten > 0 {
		beta = mathutil.KaiserBeta(opts.atten)
	}
	if beta == 0 {
		beta = filter.DefaultBeta
	}
	taps, err := filter.DesignLowPass(filter.LowPassParams{
		Gain:            factor,
		SampleRate:      factor,
		Cutoff:          opts.cutoff,
		TransitionWidth: opts.transition,
		Beta:            beta,
	})
	if err != nil {
		return err
	}
	bank, err := filter.NewPolyphaseBank(opts.factor, taps)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== Interpolation lowpass (x%d, cutoff %.3f, transition %.3f) ===\n",
		opts.factor, opts.cutoff, opts.transition)
	fmt.Fprintf(w, "Kaiser beta: %.4f (about %.1f dB stopband)\n", beta, mathutil.KaiserAttenuation(beta))
	fmt.Fprintf(w, "Filter bank info:\n")
	fmt.Fprintf(w, "  Phases: %d\n", bank.Factor)
	fmt.Fprintf(w, "  TapsPerPhase: %d\n", bank.TapsPerPhase)
	fmt.Fprintf(w, "  TotalTaps: %d\n\n", bank.TotalTaps)

	gains := bank.PhaseGain()
	fmt.Fprintln(w, "DC gain per phase:")
	var total float64
	for j, g := range gains {
		total += g
		if j < maxPhasesToShow {
			fmt.Fprintf(w, "  Phase %2d: %.10f\n", j, g)
		}
	}
	if len(gains) > maxPhasesToShow {
		fmt.Fprintf(w, "  ... (%d more phases)\n", len(gains)-maxPhasesToShow)
	}
	fmt.Fprintf(w, "\nTotal DC gain: %.10f\n", total)
	fmt.Fprintf(w, "Average DC gain per phase: %.10f\n", total/float64(len(gains)))

	// Stopband edge in output-rate normalized frequency.
	stopband := (opts.cutoff + opts.transition) / factor
	resp := filter.FrequencyResponse(taps, responsePoints)
	fmt.Fprintf(w, "Stopband peak above %.5f: %.1f dB\n", stopband, filter.StopbandPeakDB(resp, stopband))
	return nil
}

func printTaps(w io.Writer, taps []float64) {
	var sum float64
	peak := 0
	for i, h := range taps {
		sum += h
		if h > taps[peak] {
			peak = i
		}
	}
	fmt.Fprintf(w, "  Taps: %d\n", len(taps))
	fmt.Fprintf(w, "  Sum: %.10f\n", sum)
	fmt.Fprintf(w, "  Peak: tap %d = %.10f\n", peak, taps[peak])
}
