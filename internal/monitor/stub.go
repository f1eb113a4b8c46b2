//go:build !monitor

package monitor

import (
	"context"

	"github.com/tphakala/go-baseband/internal/voice"
)

// Available reports whether playback is compiled in.
func Available() bool { return false }

// Play validates a and returns ErrUnsupported.
func Play(_ context.Context, a *voice.Audio) error {
	if _, err := PCM16(a); err != nil {
		return err
	}
	return ErrUnsupported
}
