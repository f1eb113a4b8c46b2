// Package tts turns text into speech audio for the voice modulator.
package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tphakala/go-baseband/internal/voice"
)

var (
	// ErrUnavailable is returned when the speech engine cannot be run.
	ErrUnavailable = errors.New("speech synthesizer unavailable")

	// ErrInvalidRequest is returned for empty text or out-of-range settings.
	ErrInvalidRequest = errors.New("invalid speech request")
)

// Request describes one utterance.
type Request struct {
	Text       string
	SampleRate int     // resample to this rate; 0 keeps the engine rate
	Volume     float64 // linear gain in [0, 1]
}

// Synthesizer renders speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*voice.Audio, error)
}

// Defaults for ESpeak.
const (
	DefaultESpeakBinary = "espeak-ng"
	DefaultWordsPerMin  = 150
)

// ESpeak runs espeak-ng (or a compatible binary) and reads back its WAV
// output.
type ESpeak struct {
	Binary      string
	WordsPerMin int
	Voice       string // optional -v argument
}

// NewESpeak returns an ESpeak synthesizer with default settings.
func NewESpeak() *ESpeak {
	return &ESpeak{Binary: DefaultESpeakBinary, WordsPerMin: DefaultWordsPerMin}
}

// Validate checks req.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidRequest)
	}
	if r.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidRequest, r.SampleRate)
	}
	if r.Volume < 0 || r.Volume > 1 {
		return fmt.Errorf("%w: volume %f not in [0, 1]", ErrInvalidRequest, r.Volume)
	}
	return nil
}

// Synthesize implements Synthesizer.
func (e *ESpeak) Synthesize(ctx context.Context, req Request) (*voice.Audio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	binary := e.Binary
	if binary == "" {
		binary = DefaultESpeakBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	dir, err := os.MkdirTemp("", "baseband-tts-")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = os.RemoveAll(dir) }()
	wavPath := filepath.Join(dir, "speech.wav")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, e.args(wavPath, req.Text)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w: %s", ErrUnavailable, binary, err, strings.TrimSpace(stderr.String()))
	}

	audio, err := voice.LoadWAV(wavPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	for i := range audio.Samples {
		audio.Samples[i] *= float32(req.Volume)
	}
	if err := resampleTo(audio, req.SampleRate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return audio, nil
}

func (e *ESpeak) args(wavPath, text string) []string {
	wpm := e.WordsPerMin
	if wpm <= 0 {
		wpm = DefaultWordsPerMin
	}
	args := []string{"-w", wavPath, "-s", strconv.Itoa(wpm)}
	if e.Voice != "" {
		args = append(args, "-v", e.Voice)
	}
	return append(args, "--", text)
}

// Tones is a Synthesizer that beeps once per character instead of speaking,
// for hosts without a speech engine.
type Tones struct {
	Config voice.ToneConfig
}

// Synthesize implements Synthesizer.
func (t Tones) Synthesize(ctx context.Context, req Request) (*voice.Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cfg := t.Config
	cfg.Volume = req.Volume
	audio, err := voice.SynthesizeTones(req.Text, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := resampleTo(audio, req.SampleRate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return audio, nil
}

// resampleTo converts a to rate in place; rate 0 keeps the native rate.
func resampleTo(a *voice.Audio, rate int) error {
	if rate <= 0 || rate == a.SampleRate {
		return nil
	}
	samples, err := voice.Resample(a.Samples, a.SampleRate, rate)
	if err != nil {
		return err
	}
	a.Samples = samples
	a.SampleRate = rate
	return nil
}
