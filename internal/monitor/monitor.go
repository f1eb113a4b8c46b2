// Package monitor plays generated audio on the local sound card, so the
// AFSK tones or speech can be checked by ear before transmitting.
//
// Playback needs the monitor build tag; the oto backend links the system
// audio library.
package monitor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-baseband/internal/voice"
)

var (
	// ErrUnsupported is returned when the binary was built without playback.
	ErrUnsupported = errors.New("audio monitor not built in (rebuild with -tags monitor)")

	// ErrInvalidAudio is returned for audio that cannot be played.
	ErrInvalidAudio = errors.New("invalid monitor audio")
)

const bytesPerSample = 2

// PCM16 encodes a as mono signed 16-bit little-endian PCM. Samples are
// clipped to [-1, 1].
func PCM16(a *voice.Audio) ([]byte, error) {
	if a == nil || a.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing audio or sample rate", ErrInvalidAudio)
	}
	out := make([]byte, len(a.Samples)*bytesPerSample)
	for i, s := range a.Samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(int16(math.Round(v*math.MaxInt16))))
	}
	return out, nil
}
