package aprs

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tphakala/go-baseband/internal/ax25"
	"github.com/tphakala/go-baseband/internal/codec"
	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/go-baseband/internal/pipeline"
)

// DefaultDestination is the generic APRS tocall.
const DefaultDestination = "APRS"

// Interpolation lowpass, in units of the audio rate after upsampling.
const (
	lowpassCutoff     = 0.45
	lowpassTransition = 0.1
)

// Packet is one APRS transmission.
type Packet struct {
	Source      string
	Destination string // DefaultDestination when empty
	Path        string
	Info        string
}

// EncoderConfig configures the AFSK and FM stages.
type EncoderConfig struct {
	AFSK          AFSKConfig
	Deviation     float64 // FM peak deviation in Hz
	Interpolation int
	ChunkSize     int
	BufferSize    int
	Format        codec.Format
	Logger        *log.Logger
}

// DefaultEncoderConfig returns 5 kHz deviation, ×50 interpolation and s8
// output.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		AFSK:          DefaultAFSKConfig(),
		Deviation:     5000,
		Interpolation: 50,
		ChunkSize:     pipeline.DefaultChunkSize,
		BufferSize:    pipeline.DefaultBufferSize,
		Format:        codec.FormatS8,
	}
}

// Encoder renders packets through frame, NRZI, AFSK, FM and interpolation.
// An Encoder reuses its stream buffers and is not safe for concurrent use.
type Encoder struct {
	cfg    EncoderConfig
	stream *pipeline.Stream
	logger *log.Logger
}

// NewEncoder validates cfg and designs the interpolation filter.
func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	if err := cfg.AFSK.Validate(); err != nil {
		return nil, err
	}
	if cfg.Interpolation < 1 {
		return nil, fmt.Errorf("%w: interpolation %d", ErrInvalidConfig, cfg.Interpolation)
	}
	if cfg.Format.BytesPerSample() == 0 {
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidConfig, codec.ErrUnknownFormat, cfg.Format)
	}

	factor := float64(cfg.Interpolation)
	taps, err := filter.DesignLowPass(filter.LowPassParams{
		Gain:            factor,
		SampleRate:      factor,
		Cutoff:          lowpassCutoff,
		TransitionWidth: lowpassTransition,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	stream, err := pipeline.NewStream(pipeline.StreamConfig{
		ChunkSize:     cfg.ChunkSize,
		BufferSize:    cfg.BufferSize,
		Interpolation: cfg.Interpolation,
		Taps:          taps,
		Deviation:     cfg.Deviation,
		SampleRate:    float64(cfg.AFSK.SampleRate),
		Format:        cfg.Format,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Debug("encoder ready", "taps", len(taps), "factor", cfg.Interpolation, "deviation", cfg.Deviation)

	return &Encoder{cfg: cfg, stream: stream, logger: logger}, nil
}

// OutputRate returns the baseband sample rate.
func (e *Encoder) OutputRate() float64 {
	return e.stream.OutputRate()
}

// Bits returns the NRZI line levels for p.
func (e *Encoder) Bits(p Packet) ([]bool, error) {
	dest := p.Destination
	if dest == "" {
		dest = DefaultDestination
	}
	return ax25.EncodeNRZI(ax25.FrameParams{
		Source:      p.Source,
		Destination: dest,
		Path:        p.Path,
		Info:        []byte(p.Info),
	})
}

// Audio returns the AFSK waveform for p.
func (e *Encoder) Audio(p Packet) ([]float32, error) {
	bits, err := e.Bits(p)
	if err != nil {
		return nil, err
	}
	return GenerateAFSK(bits, e.cfg.AFSK), nil
}

// Encode writes p to w in the configured format. FormatPCM writes the AFSK
// audio itself; the IQ formats write the interpolated FM baseband.
func (e *Encoder) Encode(ctx context.Context, p Packet, w io.Writer) (pipeline.StreamStats, error) {
	audio, err := e.Audio(p)
	if err != nil {
		return pipeline.StreamStats{}, err
	}
	e.logger.Debug("afsk rendered", "source", p.Source, "info", len(p.Info), "samples", len(audio))

	if e.cfg.Format == codec.FormatPCM {
		buf := codec.AppendAudio(nil, audio)
		n, err := w.Write(buf)
		stats := pipeline.StreamStats{InputSamples: len(audio), OutputSamples: len(audio), Bytes: n}
		if err != nil {
			return stats, fmt.Errorf("write output: %w", err)
		}
		return stats, nil
	}

	return e.stream.Run(ctx, audio, w)
}

// Samples returns the interpolated FM baseband for p.
func (e *Encoder) Samples(ctx context.Context, p Packet) ([]complex64, error) {
	audio, err := e.Audio(p)
	if err != nil {
		return nil, err
	}
	out, _, err := e.stream.Collect(ctx, audio)
	return out, err
}
