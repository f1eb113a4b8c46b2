// Package pipeline implements the streaming FM modulation chain: a phase
// accumulator feeding a fixed ring buffer that a polyphase interpolator drains.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tphakala/go-baseband/internal/codec"
)

// ErrInvalidStream is returned for stream parameters that cannot run.
var ErrInvalidStream = errors.New("invalid stream configuration")

// StreamConfig configures a chunked FM-and-interpolate run.
type StreamConfig struct {
	// ChunkSize is the number of input samples modulated per iteration
	ChunkSize int

	// BufferSize is the ring capacity between the FM stage and the interpolator
	BufferSize int

	// Interpolation is the upsampling factor L
	Interpolation int

	// Taps is the prototype interpolation lowpass
	Taps []float64

	// Deviation is the FM peak deviation in Hz
	Deviation float64

	// SampleRate is the input (pre-interpolation) sample rate in Hz
	SampleRate float64

	// Format selects the encoding used by Run
	Format codec.Format

	// Logger receives per-chunk debug output; nil discards it
	Logger *log.Logger
}

// StreamStats summarizes a finished run.
type StreamStats struct {
	Chunks        int
	InputSamples  int // input samples fed to the FM stage
	OutputSamples int // interpolated complex samples emitted
	Bytes         int // encoded bytes written by Run
	Residual      int // samples left in the ring buffer, never emitted
	Starved       bool
}

// Stream runs FM modulation and interpolation over an input signal in
// bounded chunks. Each chunk goes through the same sequence: modulate into
// the ring buffer, interpolate every complete window, remove the processed
// samples, emit the output.
//
// Processing stops at the end of input, or early when a chunk leaves too few
// buffered samples for a single window. Whatever is still buffered at that
// point is not flushed.
type Stream struct {
	cfg    StreamConfig
	fm     *FMModulator
	interp *FIRInterpolator
	ring   *RingBuffer
	logger *log.Logger
}

// NewStream validates cfg and builds the stages.
func NewStream(cfg StreamConfig) (*Stream, error) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.ChunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidStream, cfg.ChunkSize)
	}
	if cfg.Format.BytesPerSample() == 0 {
		return nil, fmt.Errorf("%w: %w: %v", ErrInvalidStream, codec.ErrUnknownFormat, cfg.Format)
	}

	fm, err := NewFMModulator(cfg.Deviation, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	interp, err := NewFIRInterpolator(cfg.Interpolation, cfg.Taps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	// The ring must hold a full chunk on top of the unconsumed tail of the
	// previous one, or Insert would overwrite samples not yet filtered.
	if need := cfg.ChunkSize + interp.TapsPerPhase() - 1; cfg.BufferSize < need {
		return nil, fmt.Errorf("%w: buffer size %d smaller than chunk plus filter history (%d)",
			ErrInvalidStream, cfg.BufferSize, need)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Stream{
		cfg:    cfg,
		fm:     fm,
		interp: interp,
		ring:   NewRingBuffer(cfg.BufferSize),
		logger: logger,
	}, nil
}

// OutputRate returns the sample rate of the interpolated output.
func (s *Stream) OutputRate() float64 {
	return s.cfg.SampleRate * float64(s.cfg.Interpolation)
}

// Run streams input through the chain and writes each chunk's output to w,
// encoded in the configured format.
func (s *Stream) Run(ctx context.Context, input []float32, w io.Writer) (StreamStats, error) {
	var buf []byte
	var written int

	stats, err := s.process(ctx, input, func(samples []complex64) error {
		buf = codec.Append(buf[:0], s.cfg.Format, samples)
		n, err := w.Write(buf)
		written += n
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	})
	stats.Bytes = written
	return stats, err
}

// Collect runs the chain and returns every emitted sample.
func (s *Stream) Collect(ctx context.Context, input []float32) ([]complex64, StreamStats, error) {
	var all []complex64
	stats, err := s.process(ctx, input, func(samples []complex64) error {
		all = append(all, samples...)
		return nil
	})
	return all, stats, err
}

func (s *Stream) process(ctx context.Context, input []float32, emit func([]complex64) error) (StreamStats, error) {
	var stats StreamStats
	var out []complex64

	s.fm.Reset()
	s.ring.Clear()

	for offset := 0; offset < len(input); {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n := min(s.cfg.ChunkSize, len(input)-offset)
		s.fm.Modulate(input[offset:offset+n], s.ring)

		var processed int
		out, processed = s.interp.Interpolate(s.ring, out[:0])
		if processed == 0 {
			s.logger.Debug("interpolator starved", "offset", offset, "buffered", s.ring.ReadAvailable())
			stats.Starved = true
			break
		}
		s.ring.Remove(processed)

		if err := emit(out); err != nil {
			return stats, err
		}

		stats.Chunks++
		stats.InputSamples += n
		stats.OutputSamples += len(out)
		s.logger.Debug("chunk",
			"offset", offset,
			"input", n,
			"windows", processed,
			"output", len(out),
			"buffered", s.ring.ReadAvailable())

		offset += n
	}

	stats.Residual = s.ring.ReadAvailable()
	return stats, nil
}
