package ax25

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCallsign is returned for callsigns that do not fit an address field.
	ErrInvalidCallsign = errors.New("invalid callsign")

	// ErrInvalidSSID is returned when the part after '-' is not an integer in [0, 15].
	ErrInvalidSSID = errors.New("invalid SSID")
)

const (
	// AddressLen is the size of one encoded address field.
	AddressLen = 7

	maxCallsignInput = 16
	maxBaseLen       = 6
	maxSSID          = 15
)

// Address is a callsign with its secondary station identifier.
type Address struct {
	Call string
	SSID int
}

// String renders the address as CALL or CALL-SSID.
func (a Address) String() string {
	if a.SSID == 0 {
		return a.Call
	}
	return a.Call + "-" + strconv.Itoa(a.SSID)
}

// ParseAddress splits and validates a CALL[-SSID] string. The callsign is
// upper-cased.
func ParseAddress(s string) (Address, error) {
	cs := strings.ToUpper(s)
	if len(cs) >= maxCallsignInput {
		return Address{}, fmt.Errorf("%w: %q is too long", ErrInvalidCallsign, s)
	}

	base, ssidPart, hasSSID := strings.Cut(cs, "-")
	if base == "" {
		return Address{}, fmt.Errorf("%w: empty callsign", ErrInvalidCallsign)
	}
	if len(base) > maxBaseLen {
		return Address{}, fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidCallsign, base, maxBaseLen)
	}

	ssid := 0
	if hasSSID {
		n, err := strconv.Atoi(ssidPart)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q is not a number", ErrInvalidSSID, ssidPart)
		}
		if n < 0 || n > maxSSID {
			return Address{}, fmt.Errorf("%w: %d not in range 0 to %d", ErrInvalidSSID, n, maxSSID)
		}
		ssid = n
	}

	return Address{Call: base, SSID: ssid}, nil
}

// EncodeCallsign returns the 7 unshifted address bytes for s: the base
// callsign space-padded to six characters followed by '0'+SSID.
func EncodeCallsign(s string) ([AddressLen]byte, error) {
	var out [AddressLen]byte
	addr, err := ParseAddress(s)
	if err != nil {
		return out, err
	}
	copy(out[:], fmt.Sprintf("%-6s", addr.Call))
	out[6] = '0' + byte(addr.SSID)
	return out, nil
}

// EncodeAddress builds the shifted address field: destination, source, then
// each non-empty entry of the comma-separated digipeater path. The final
// byte carries the end-of-address bit.
func EncodeAddress(src, dest, path string) ([]byte, error) {
	calls := []string{dest, src}
	for _, hop := range strings.Split(path, ",") {
		if hop = strings.TrimSpace(hop); hop != "" {
			calls = append(calls, hop)
		}
	}

	out := make([]byte, 0, len(calls)*AddressLen)
	for _, c := range calls {
		enc, err := EncodeCallsign(c)
		if err != nil {
			return nil, err
		}
		for _, b := range enc {
			out = append(out, b<<1)
		}
	}
	out[len(out)-1] |= 0x01
	return out, nil
}

// decodeAddress reverses one shifted 7-byte field.
func decodeAddress(field []byte) Address {
	var call [maxBaseLen]byte
	for i := range maxBaseLen {
		call[i] = field[i] >> 1
	}
	return Address{
		Call: strings.TrimRight(string(call[:]), " "),
		SSID: int(field[6]>>1) & 0x0f,
	}
}
