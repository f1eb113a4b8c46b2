package baseband

import (
	"fmt"
	"strings"
)

// Scheme selects a modulation.
type Scheme int

const (
	// SchemeGFSK modulates a bitstream with Gaussian-filtered FSK.
	SchemeGFSK Scheme = iota

	// SchemeAPRS encodes an APRS packet as AFSK over FM.
	SchemeAPRS

	// SchemeFM frequency modulates one beep per character of text.
	SchemeFM

	// SchemeVoice frequency modulates speech.
	SchemeVoice

	// SchemeQPSK modulates a bitstream with coded, pulse shaped QPSK.
	SchemeQPSK
)

var schemeNames = [...]string{
	SchemeGFSK:  "gfsk",
	SchemeAPRS:  "aprs",
	SchemeFM:    "fm",
	SchemeVoice: "voice",
	SchemeQPSK:  "qpsk",
}

// ParseScheme maps a case-insensitive name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range schemeNames {
		if n == name {
			return Scheme(s), nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported modulation %q", ErrInvalidConfig, name)
}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// Schemes returns every supported scheme in declaration order.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemeNames))
	for i := range out {
		out[i] = Scheme(i)
	}
	return out
}
