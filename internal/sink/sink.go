// Package sink delivers finished baseband to files, writers or a HackRF.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/go-baseband/internal/codec"
)

var (
	// ErrInvalidDevice is returned for tuning parameters out of range.
	ErrInvalidDevice = errors.New("invalid device configuration")

	// ErrUnavailable is returned when the transmit backend cannot be started.
	ErrUnavailable = errors.New("transmit backend unavailable")
)

// Device limits.
const (
	MinFrequency = 1e6
	MaxFrequency = 6e9
	MaxTXGain    = 47
)

// Sink transmits a complete sample sequence. Hardware sinks treat it as a
// circular source and repeat it until ctx is done.
type Sink interface {
	Transmit(ctx context.Context, samples []complex64, cfg DeviceConfig) error
}

// DeviceConfig tunes the transmitter.
type DeviceConfig struct {
	CenterFrequency float64 // Hz
	SampleRate      float64 // Hz
	Gain            int     // TX VGA gain in dB
	AmpEnable       bool    // RF amplifier
}

// DefaultDeviceConfig returns 144.8 MHz at 2.4 MS/s, the APRS output rate.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		CenterFrequency: 144.8e6,
		SampleRate:      2.4e6,
		Gain:            20,
		AmpEnable:       true,
	}
}

// Validate checks the configuration against the device limits.
func (c *DeviceConfig) Validate() error {
	if c.CenterFrequency < MinFrequency || c.CenterFrequency > MaxFrequency {
		return fmt.Errorf("%w: frequency %.0f Hz outside [%.0f, %.0f]",
			ErrInvalidDevice, c.CenterFrequency, MinFrequency, MaxFrequency)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %.0f", ErrInvalidDevice, c.SampleRate)
	}
	if c.Gain < 0 || c.Gain > MaxTXGain {
		return fmt.Errorf("%w: gain %d dB outside [0, %d]", ErrInvalidDevice, c.Gain, MaxTXGain)
	}
	return nil
}

// WriterSink encodes samples once into W.
type WriterSink struct {
	W      io.Writer
	Format codec.Format
}

// Transmit implements Sink. The device configuration is ignored.
func (s WriterSink) Transmit(ctx context.Context, samples []complex64, _ DeviceConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Format.BytesPerSample() == 0 {
		return fmt.Errorf("%w: %v", codec.ErrUnknownFormat, s.Format)
	}
	if _, err := s.W.Write(codec.Encode(s.Format, samples)); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}

// FileSink encodes samples once into the file at Path, replacing it.
type FileSink struct {
	Path   string
	Format codec.Format
}

// Transmit implements Sink. The device configuration is ignored.
func (s FileSink) Transmit(ctx context.Context, samples []complex64, cfg DeviceConfig) (err error) {
	if s.Format.BytesPerSample() == 0 {
		return fmt.Errorf("%w: %v", codec.ErrUnknownFormat, s.Format)
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", s.Path, cerr)
		}
	}()
	return WriterSink{W: f, Format: s.Format}.Transmit(ctx, samples, cfg)
}

// Discard accepts and drops everything.
type Discard struct{}

// Transmit implements Sink.
func (Discard) Transmit(context.Context, []complex64, DeviceConfig) error { return nil }
