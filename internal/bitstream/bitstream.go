// Package bitstream reads modulator input bits from a source descriptor.
package bitstream

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrInvalidSource is returned for descriptors without a known prefix.
	ErrInvalidSource = errors.New("invalid bitstream source")

	// ErrResource is returned when the referenced file cannot be read.
	ErrResource = errors.New("bitstream resource unavailable")
)

const (
	prefixString = "str:"
	prefixFile   = "file:"
)

// Parse resolves "str:<bits>" or "file:<path>" to a bit sequence.
func Parse(source string) ([]bool, error) {
	switch {
	case strings.HasPrefix(source, prefixString):
		return ParseString(source[len(prefixString):]), nil
	case strings.HasPrefix(source, prefixFile):
		path := source[len(prefixFile):]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResource, err)
		}
		return ParseString(string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %q (use str:<bits> or file:<path>)", ErrInvalidSource, source)
	}
}

// ParseString keeps the '0' and '1' characters of s and ignores the rest.
func ParseString(s string) []bool {
	out := make([]bool, 0, len(s))
	for _, c := range s {
		switch c {
		case '0':
			out = append(out, false)
		case '1':
			out = append(out, true)
		}
	}
	return out
}

// String renders bits as '0' and '1' characters.
func String(bits []bool) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
