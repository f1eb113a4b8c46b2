// Package ax25 builds AX.25 UI frames and their HDLC bit streams.
package ax25

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInfoTooLong is returned when the information field exceeds MaxInfoLen.
	ErrInfoTooLong = errors.New("information field too long")

	// ErrNoFrame is returned by DecodeFrame when no complete frame is found.
	ErrNoFrame = errors.New("no frame found")

	// ErrBadFCS is returned by DecodeFrame when the checksum does not match.
	ErrBadFCS = errors.New("frame check sequence mismatch")
)

const (
	// ControlUI is the control byte of an unnumbered information frame.
	ControlUI = 0x03

	// PIDNoLayer3 is the protocol identifier used by APRS.
	PIDNoLayer3 = 0xf0

	// MaxInfoLen is the largest information field accepted.
	MaxInfoLen = 256

	// Flag is the HDLC frame delimiter.
	Flag = 0x7e

	// PreSyncBits is the run of zeros sent ahead of the opening flags.
	PreSyncBits = 20

	// LeadingFlags is the number of flags sent before the frame.
	LeadingFlags = 100

	// TrailingFlags is the number of flags sent after the frame.
	TrailingFlags = 1

	fcsLen       = 2
	minFrameLen  = 2*AddressLen + 2 + fcsLen
	maxAddresses = 10
)

// flagBits is Flag serialized LSB first.
var flagBits = Bits([]byte{Flag})

// FrameParams describes a UI frame to build.
type FrameParams struct {
	Source      string
	Destination string
	Path        string // comma separated digipeaters, may be empty
	Info        []byte
}

// BuildFrame returns the address field, control, PID, information and FCS.
func BuildFrame(p FrameParams) ([]byte, error) {
	if len(p.Info) > MaxInfoLen {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInfoTooLong, len(p.Info), MaxInfoLen)
	}

	frame, err := EncodeAddress(p.Source, p.Destination, p.Path)
	if err != nil {
		return nil, err
	}
	frame = append(frame, ControlUI, PIDNoLayer3)
	frame = append(frame, p.Info...)
	return AppendCRC(frame), nil
}

// Encode returns the transmit bit sequence for p: pre-sync zeros, opening
// flags, the bit-stuffed frame and the closing flag. NRZI is not applied.
func Encode(p FrameParams) ([]bool, error) {
	frame, err := BuildFrame(p)
	if err != nil {
		return nil, err
	}

	stuffed := BitStuff(frame)
	out := make([]bool, PreSyncBits, PreSyncBits+(LeadingFlags+TrailingFlags)*8+len(stuffed))
	for range LeadingFlags {
		out = append(out, flagBits...)
	}
	out = append(out, stuffed...)
	for range TrailingFlags {
		out = append(out, flagBits...)
	}
	return out, nil
}

// EncodeNRZI is Encode followed by NRZI over the whole sequence.
func EncodeNRZI(p FrameParams) ([]bool, error) {
	bits, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return NRZI(bits), nil
}

// Frame is a decoded UI frame.
type Frame struct {
	Destination Address
	Source      Address
	Path        []Address
	Control     byte
	PID         byte
	Info        []byte
}

// String renders the frame in monitor form, SRC>DEST,PATH:info.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.WriteString(f.Source.String())
	sb.WriteByte('>')
	sb.WriteString(f.Destination.String())
	for _, hop := range f.Path {
		sb.WriteByte(',')
		sb.WriteString(hop.String())
	}
	sb.WriteByte(':')
	sb.Write(f.Info)
	return sb.String()
}

// DecodeFrame finds the first frame in a (non-NRZI) bit sequence such as the
// output of Encode, removes bit stuffing and verifies the FCS.
func DecodeFrame(bits []bool) (*Frame, error) {
	for _, candidate := range splitFrames(bits) {
		if len(candidate)%8 != 0 || len(candidate)/8 < minFrameLen {
			continue
		}
		return parseFrame(Pack(candidate))
	}
	return nil, ErrNoFrame
}

// DecodeFrameNRZI decodes line levels produced by EncodeNRZI.
func DecodeFrameNRZI(levels []bool) (*Frame, error) {
	return DecodeFrame(DecodeNRZI(levels))
}

// splitFrames returns the unstuffed bits between consecutive flags. A run
// of seven or more ones aborts the frame in progress.
func splitFrames(bits []bool) [][]bool {
	var frames [][]bool
	var cur []bool
	ones := 0
	for _, b := range bits {
		if b {
			cur = append(cur, true)
			ones++
			if ones > 6 {
				cur = cur[:0]
			}
			continue
		}

		switch {
		case ones == 6:
			// Drop the flag's six ones and its leading zero.
			if n := len(cur) - 7; n > 0 {
				frames = append(frames, append([]bool(nil), cur[:n]...))
			}
			cur = cur[:0]
		case ones == maxOnes:
			// stuffed zero
		default:
			cur = append(cur, false)
		}
		ones = 0
	}
	return frames
}

func parseFrame(data []byte) (*Frame, error) {
	body := data[:len(data)-fcsLen]
	want := uint16(data[len(data)-2]) | uint16(data[len(data)-1])<<8
	if got := CRC16(body); got != want {
		return nil, fmt.Errorf("%w: computed %#04x, frame carries %#04x", ErrBadFCS, got, want)
	}

	var addrs []Address
	end := 0
	for end+AddressLen <= len(body) && len(addrs) < maxAddresses {
		field := body[end : end+AddressLen]
		addrs = append(addrs, decodeAddress(field))
		end += AddressLen
		if field[6]&0x01 != 0 {
			break
		}
	}
	if len(addrs) < 2 || body[end-1]&0x01 == 0 || end+2 > len(body) {
		return nil, fmt.Errorf("%w: malformed address field", ErrNoFrame)
	}

	return &Frame{
		Destination: addrs[0],
		Source:      addrs[1],
		Path:        addrs[2:],
		Control:     body[end],
		PID:         body[end+1],
		Info:        append([]byte(nil), body[end+2:]...),
	}, nil
}
