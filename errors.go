package baseband

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/tphakala/go-baseband/internal/aprs"
	"github.com/tphakala/go-baseband/internal/ax25"
	"github.com/tphakala/go-baseband/internal/bitstream"
	"github.com/tphakala/go-baseband/internal/codec"
	"github.com/tphakala/go-baseband/internal/filter"
	"github.com/tphakala/go-baseband/internal/gfsk"
	"github.com/tphakala/go-baseband/internal/pipeline"
	"github.com/tphakala/go-baseband/internal/qpsk"
	"github.com/tphakala/go-baseband/internal/tts"
	"github.com/tphakala/go-baseband/internal/voice"
)

var (
	// ErrInvalidConfig indicates a request that cannot be rendered.
	ErrInvalidConfig = errors.New("invalid baseband configuration")

	// ErrResource indicates an input the request names could not be used.
	ErrResource = errors.New("baseband resource unavailable")
)

var invalidConfigErrors = []error{
	ax25.ErrInvalidCallsign,
	ax25.ErrInvalidSSID,
	ax25.ErrInfoTooLong,
	aprs.ErrInvalidConfig,
	gfsk.ErrInvalidConfig,
	qpsk.ErrInvalidConfig,
	voice.ErrInvalidConfig,
	bitstream.ErrInvalidSource,
	codec.ErrUnknownFormat,
	tts.ErrInvalidRequest,
	pipeline.ErrInvalidStream,
	filter.ErrInvalidParameter,
}

var resourceErrors = []error{
	bitstream.ErrResource,
	tts.ErrUnavailable,
	voice.ErrInvalidWAV,
	voice.ErrUnsupportedBitDepth,
	fs.ErrNotExist,
	fs.ErrPermission,
}

// classify tags err with the public sentinel it belongs to. Errors already
// tagged, context errors and unknown errors pass through unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrResource) {
		return err
	}
	for _, target := range invalidConfigErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, target := range resourceErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrResource, err)
		}
	}
	return err
}
