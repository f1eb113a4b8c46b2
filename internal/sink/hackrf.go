package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tphakala/go-baseband/internal/codec"
)

// DefaultHackRFBinary is the transfer tool shipped with the HackRF host tools.
const DefaultHackRFBinary = "hackrf_transfer"

// Recommended HackRF sample rate range.
const (
	minRecommendedRate = 2e6
	maxRecommendedRate = 20e6
)

// HackRF transmits through the hackrf_transfer tool. The samples are peak
// normalized, written to a temporary s8 file and replayed in a loop until
// the context is cancelled.
type HackRF struct {
	Binary string // defaults to DefaultHackRFBinary
	Repeat bool   // loop the file; otherwise send it once
	Logger *log.Logger
}

// NewHackRF returns a repeating HackRF sink.
func NewHackRF(logger *log.Logger) *HackRF {
	return &HackRF{Binary: DefaultHackRFBinary, Repeat: true, Logger: logger}
}

// Transmit implements Sink. Cancelling ctx stops the transfer and is not
// reported as an error.
func (h *HackRF) Transmit(ctx context.Context, samples []complex64, cfg DeviceConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := h.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.SampleRate < minRecommendedRate || cfg.SampleRate > maxRecommendedRate {
		logger.Warn("sample rate outside recommended range", "rate", cfg.SampleRate,
			"min", minRecommendedRate, "max", maxRecommendedRate)
	}

	binary := h.Binary
	if binary == "" {
		binary = DefaultHackRFBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	dir, err := os.MkdirTemp("", "baseband-tx-")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	file := filepath.Join(dir, "tx.s8")
	if err := os.WriteFile(file, Normalize(samples), 0o600); err != nil {
		return fmt.Errorf("%w: write samples: %w", ErrUnavailable, err)
	}

	args := TransferArgs(file, cfg, h.Repeat)
	logger.Info("starting transmission",
		"frequency", cfg.CenterFrequency,
		"rate", cfg.SampleRate,
		"gain", cfg.Gain,
		"amp", cfg.AmpEnable,
		"samples", len(samples))
	logger.Debug("exec", "cmd", path, "args", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		logger.Info("transmission stopped")
		return nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited %d: %s", ErrUnavailable, binary, exitErr.ExitCode(), lastLine(stderr.String()))
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	logger.Info("transmission complete")
	return nil
}

// TransferArgs builds the hackrf_transfer command line for a TX file.
func TransferArgs(file string, cfg DeviceConfig, repeat bool) []string {
	amp := "0"
	if cfg.AmpEnable {
		amp = "1"
	}
	args := []string{
		"-t", file,
		"-f", strconv.FormatInt(int64(math.Round(cfg.CenterFrequency)), 10),
		"-s", strconv.FormatInt(int64(math.Round(cfg.SampleRate)), 10),
		"-x", strconv.Itoa(cfg.Gain),
		"-a", amp,
	}
	if repeat {
		args = append(args, "-R")
	}
	return args
}

// Normalize scales samples so the largest I or Q magnitude is 1, then
// rounds half to even into interleaved signed 8-bit.
func Normalize(samples []complex64) []byte {
	var peak float64
	for _, s := range samples {
		peak = max(peak, math.Abs(float64(real(s))), math.Abs(float64(imag(s))))
	}
	scale := 1.0
	if peak > 0 {
		scale = 1 / peak
	}

	out := make([]byte, 0, len(samples)*codec.FormatS8.BytesPerSample())
	for _, s := range samples {
		out = append(out, roundS8(float64(real(s))*scale), roundS8(float64(imag(s))*scale))
	}
	return out
}

func roundS8(x float64) byte {
	return byte(int8(math.RoundToEven(x * 127)))
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
