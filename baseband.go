package baseband

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tphakala/go-baseband/internal/aprs"
	"github.com/tphakala/go-baseband/internal/bitstream"
	"github.com/tphakala/go-baseband/internal/codec"
	"github.com/tphakala/go-baseband/internal/gfsk"
	"github.com/tphakala/go-baseband/internal/qpsk"
	"github.com/tphakala/go-baseband/internal/tts"
	"github.com/tphakala/go-baseband/internal/voice"
)

// Request describes one waveform.
//
// Data is interpreted per scheme: a bitstream descriptor ("str:0101" or
// "file:bits.txt") for GFSK and QPSK, the information field for APRS, and
// the text for FM and voice.
type Request struct {
	Scheme Scheme
	Data   string
	Format Format

	APRS  APRSOptions
	GFSK  GFSKConfig
	QPSK  QPSKConfig
	FM    FMConfig   // baseband of SchemeFM and SchemeVoice
	Tones ToneConfig // beeps of SchemeFM
	Voice VoiceOptions

	// Logger receives progress output; nil discards it
	Logger *log.Logger
}

// APRSOptions holds the addressing and AFSK/FM parameters of an APRS packet.
type APRSOptions struct {
	Source      string
	Destination string
	Path        string // comma separated digipeaters

	AFSK          AFSKConfig
	Deviation     float64 // FM peak deviation in Hz
	Interpolation int     // upsampling factor from the audio rate
}

// VoiceOptions selects where speech comes from.
type VoiceOptions struct {
	// Synthesizer speaks Data; nil runs espeak-ng
	Synthesizer Synthesizer

	// AudioFile, when set, is modulated instead of speaking Data
	AudioFile string

	SampleRate int     // synthesizer output rate
	Volume     float64 // linear gain in [0, 1]
}

// Result summarizes a Generate call.
type Result struct {
	Scheme     Scheme
	Samples    int     // samples written
	Bytes      int     // bytes written
	SampleRate float64 // rate of the written samples, 0 when undefined
}

// Duration returns the playing time of the output, or 0 when the rate is
// undefined.
func (r Result) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(r.Samples) / r.SampleRate * float64(time.Second))
}

// DefaultRequest returns a request for s with default parameters for every
// scheme. APRS defaults to s8 output and the others to f32.
func DefaultRequest(s Scheme) Request {
	enc := aprs.DefaultEncoderConfig()
	format := FormatF32
	if s == SchemeAPRS {
		format = FormatS8
	}
	return Request{
		Scheme: s,
		Format: format,
		APRS: APRSOptions{
			Source:        DefaultCallsign,
			Destination:   aprs.DefaultDestination,
			Path:          DefaultPath,
			AFSK:          enc.AFSK,
			Deviation:     enc.Deviation,
			Interpolation: enc.Interpolation,
		},
		GFSK:  gfsk.DefaultConfig(),
		QPSK:  qpsk.DefaultConfig(),
		FM:    voice.DefaultFMConfig(),
		Tones: voice.DefaultToneConfig(),
		Voice: VoiceOptions{
			SampleRate: DefaultTTSSampleRate,
			Volume:     DefaultVolume,
		},
	}
}

// Validate checks the parameters of the selected scheme.
func (r *Request) Validate() error {
	if r.Scheme < 0 || int(r.Scheme) >= len(schemeNames) {
		return fmt.Errorf("%w: unknown scheme %d", ErrInvalidConfig, int(r.Scheme))
	}
	if r.Format.BytesPerSample() == 0 {
		return fmt.Errorf("%w: unknown format %d", ErrInvalidConfig, int(r.Format))
	}
	if strings.TrimSpace(r.Data) == "" && (r.Scheme != SchemeVoice || r.Voice.AudioFile == "") {
		return fmt.Errorf("%w: no data for %s", ErrInvalidConfig, r.Scheme)
	}

	var err error
	switch r.Scheme {
	case SchemeGFSK:
		err = r.GFSK.Validate()
	case SchemeQPSK:
		err = r.QPSK.Validate()
	case SchemeAPRS:
		err = r.APRS.AFSK.Validate()
		if err == nil && r.APRS.Interpolation < 1 {
			err = fmt.Errorf("%w: interpolation %d", ErrInvalidConfig, r.APRS.Interpolation)
		}
	case SchemeFM:
		if err = r.FM.Validate(); err == nil {
			err = r.Tones.Validate()
		}
	case SchemeVoice:
		err = r.FM.Validate()
	}
	return classify(err)
}

// OutputRate returns the sample rate of the samples Synthesize produces.
// QPSK is defined in samples per symbol only and reports 0.
func (r *Request) OutputRate() float64 {
	switch r.Scheme {
	case SchemeGFSK:
		return float64(r.GFSK.SampleRate)
	case SchemeAPRS:
		return float64(r.APRS.AFSK.SampleRate * r.APRS.Interpolation)
	case SchemeFM, SchemeVoice:
		return float64(r.FM.SampleRate)
	default:
		return 0
	}
}

func (r *Request) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// Generate renders req and writes it to w in req.Format.
//
// APRS streams chunk by chunk as it is interpolated; the other schemes are
// rendered whole and written once.
func Generate(ctx context.Context, req Request, w io.Writer) (Result, error) {
	res := Result{Scheme: req.Scheme}
	if err := req.Validate(); err != nil {
		return res, err
	}
	logger := req.logger()

	if req.Scheme == SchemeAPRS {
		enc, err := req.aprsEncoder(req.Format, logger)
		if err != nil {
			return res, err
		}
		stats, err := enc.Encode(ctx, req.packet(), w)
		res.Samples = stats.OutputSamples
		res.Bytes = stats.Bytes
		res.SampleRate = enc.OutputRate()
		if req.Format == FormatPCM {
			res.SampleRate = float64(req.APRS.AFSK.SampleRate)
		}
		if err != nil {
			return res, classify(err)
		}
		logger.Info("aprs packet written",
			"source", req.APRS.Source,
			"chunks", stats.Chunks,
			"samples", res.Samples,
			"bytes", res.Bytes,
			"residual", stats.Residual)
		return res, nil
	}

	samples, err := synthesize(ctx, &req, logger)
	if err != nil {
		return res, err
	}
	res.Samples = len(samples)
	res.SampleRate = req.OutputRate()

	n, err := w.Write(codec.Encode(req.Format, samples))
	res.Bytes = n
	if err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	logger.Info("waveform written", "scheme", req.Scheme, "format", req.Format, "samples", res.Samples, "bytes", n)
	return res, nil
}

// Synthesize renders req to complex samples at OutputRate. req.Format is
// ignored, except that APRS always passes through its s8 encoding so the
// samples match what Generate writes.
func Synthesize(ctx context.Context, req Request) ([]complex64, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return synthesize(ctx, &req, req.logger())
}

func synthesize(ctx context.Context, req *Request, logger *log.Logger) ([]complex64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Scheme {
	case SchemeGFSK:
		bits, err := bitstream.Parse(req.Data)
		if err != nil {
			return nil, classify(err)
		}
		logger.Debug("gfsk bitstream", "bits", len(bits), "sps", req.GFSK.SamplesPerSymbol())
		out, err := gfsk.Modulate(bits, req.GFSK)
		return out, classify(err)

	case SchemeQPSK:
		bits, err := bitstream.Parse(req.Data)
		if err != nil {
			return nil, classify(err)
		}
		logger.Debug("qpsk bitstream", "bits", len(bits), "coding", req.QPSK.Coding)
		out, err := qpsk.Modulate(bits, req.QPSK)
		return out, classify(err)

	case SchemeFM:
		audio, err := voice.SynthesizeTones(req.Data, req.Tones)
		if err != nil {
			return nil, classify(err)
		}
		logger.Debug("tones rendered", "chars", len(req.Data), "duration", audio.Duration())
		out, err := voice.Modulate(audio, req.FM)
		return out, classify(err)

	case SchemeVoice:
		audio, err := req.speech(ctx, logger)
		if err != nil {
			return nil, classify(err)
		}
		logger.Debug("speech ready", "rate", audio.SampleRate, "duration", audio.Duration())
		out, err := voice.Modulate(audio, req.FM)
		return out, classify(err)

	case SchemeAPRS:
		enc, err := req.aprsEncoder(FormatS8, logger)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if _, err := enc.Encode(ctx, req.packet(), &buf); err != nil {
			return nil, classify(err)
		}
		out, err := codec.Decode(FormatS8, buf.Bytes())
		return out, classify(err)
	}
	return nil, fmt.Errorf("%w: unknown scheme %d", ErrInvalidConfig, int(req.Scheme))
}

func (r *Request) aprsEncoder(format Format, logger *log.Logger) (*aprs.Encoder, error) {
	cfg := aprs.DefaultEncoderConfig()
	cfg.AFSK = r.APRS.AFSK
	cfg.Deviation = r.APRS.Deviation
	cfg.Interpolation = r.APRS.Interpolation
	cfg.Format = format
	cfg.Logger = logger
	enc, err := aprs.NewEncoder(cfg)
	return enc, classify(err)
}

func (r *Request) packet() aprs.Packet {
	return aprs.Packet{
		Source:      r.APRS.Source,
		Destination: r.APRS.Destination,
		Path:        r.APRS.Path,
		Info:        r.Data,
	}
}

func (r *Request) speech(ctx context.Context, logger *log.Logger) (*voice.Audio, error) {
	if r.Voice.AudioFile != "" {
		logger.Debug("loading speech", "file", r.Voice.AudioFile)
		return voice.LoadWAV(r.Voice.AudioFile)
	}
	synth := r.Voice.Synthesizer
	if synth == nil {
		synth = tts.NewESpeak()
	}
	return synth.Synthesize(ctx, tts.Request{
		Text:       r.Data,
		SampleRate: r.Voice.SampleRate,
		Volume:     r.Voice.Volume,
	})
}
