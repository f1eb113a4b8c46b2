package baseband

import (
	"github.com/tphakala/go-baseband/internal/aprs"
	"github.com/tphakala/go-baseband/internal/codec"
	"github.com/tphakala/go-baseband/internal/gfsk"
	"github.com/tphakala/go-baseband/internal/qpsk"
	"github.com/tphakala/go-baseband/internal/tts"
	"github.com/tphakala/go-baseband/internal/voice"
)

// Format is an output sample encoding.
type Format = codec.Format

// Sample formats.
const (
	FormatS8  = codec.FormatS8
	FormatF32 = codec.FormatF32
	FormatPCM = codec.FormatPCM
)

// Per-scheme parameter types.
type (
	GFSKConfig = gfsk.Config
	QPSKConfig = qpsk.Config
	AFSKConfig = aprs.AFSKConfig
	FMConfig   = voice.FMConfig
	ToneConfig = voice.ToneConfig
)

// ResampleMode selects how FM and voice audio reach the baseband rate.
type ResampleMode = voice.ResampleMode

// Resampling modes.
const (
	ResamplePolyphase = voice.ResamplePolyphase
	ResampleLinear    = voice.ResampleLinear
)

// ParseResampleMode maps "polyphase" or "linear" to a ResampleMode.
func ParseResampleMode(name string) (ResampleMode, error) {
	m, err := voice.ParseResampleMode(name)
	return m, classify(err)
}

// Audio is a mono waveform normalized to [-1, 1].
type Audio = voice.Audio

// Synthesizer turns text into speech for SchemeVoice.
type Synthesizer = tts.Synthesizer

// ParseFormat maps "s8", "f32" or "pcm" to a Format.
func ParseFormat(name string) (Format, error) {
	f, err := codec.ParseFormat(name)
	return f, classify(err)
}

// Encode serializes samples in format f.
func Encode(f Format, samples []complex64) []byte {
	return codec.Encode(f, samples)
}
