package baseband

import (
	"context"
	"fmt"

	"github.com/tphakala/go-baseband/internal/voice"
)

// Audio returns the modulating audio of the audio-based schemes before FM:
// the AFSK tones of APRS, the beeps of SchemeFM and the speech of
// SchemeVoice. GFSK and QPSK have no audio stage.
func (r *Request) Audio(ctx context.Context) (*Audio, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := r.logger()

	switch r.Scheme {
	case SchemeAPRS:
		enc, err := r.aprsEncoder(FormatPCM, logger)
		if err != nil {
			return nil, err
		}
		samples, err := enc.Audio(r.packet())
		if err != nil {
			return nil, classify(err)
		}
		return &voice.Audio{Samples: samples, SampleRate: r.APRS.AFSK.SampleRate}, nil
	case SchemeFM:
		a, err := voice.SynthesizeTones(r.Data, r.Tones)
		return a, classify(err)
	case SchemeVoice:
		a, err := r.speech(ctx, logger)
		return a, classify(err)
	default:
		return nil, fmt.Errorf("%w: %s has no audio stage", ErrInvalidConfig, r.Scheme)
	}
}
