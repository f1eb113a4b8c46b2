// Package codec serializes complex baseband samples to the supported wire formats.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/simd/f32"
)

var (
	// ErrUnknownFormat is returned for format names outside the closed set.
	ErrUnknownFormat = errors.New("unknown sample format")

	// ErrTruncated is returned by Decode when the input ends mid-sample.
	ErrTruncated = errors.New("truncated sample data")
)

// Format is an output sample encoding.
type Format int

const (
	// FormatS8 is interleaved signed 8-bit I/Q, the HackRF wire format.
	FormatS8 Format = iota

	// FormatF32 is interleaved little-endian float32 I/Q.
	FormatF32

	// FormatPCM is little-endian float32 carrying only the I component.
	FormatPCM
)

const (
	s8Scale = 127.0
	s8Min   = math.MinInt8
	s8Max   = math.MaxInt8

	float32Size = 4
)

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "s8", "iq_s8":
		return FormatS8, nil
	case "f32", "iq_f32":
		return FormatF32, nil
	case "pcm", "pcm_f32":
		return FormatPCM, nil
	default:
		return 0, fmt.Errorf("%w: %q (want s8, f32 or pcm)", ErrUnknownFormat, name)
	}
}

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case FormatS8:
		return "s8"
	case FormatF32:
		return "f32"
	case FormatPCM:
		return "pcm"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// BytesPerSample returns the encoded size of one complex sample.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatS8:
		return 2
	case FormatF32:
		return 2 * float32Size
	case FormatPCM:
		return float32Size
	default:
		return 0
	}
}

// Encode returns samples serialized in format f.
func Encode(f Format, samples []complex64) []byte {
	return Append(nil, f, samples)
}

// Append serializes samples in format f onto dst and returns the extended slice.
func Append(dst []byte, f Format, samples []complex64) []byte {
	switch f {
	case FormatS8:
		return appendS8(dst, samples)
	case FormatF32:
		return appendF32(dst, samples)
	case FormatPCM:
		return appendReal(dst, samples)
	default:
		panic(fmt.Sprintf("codec: unhandled format %d", int(f)))
	}
}

// AppendAudio serializes a real audio signal as little-endian float32.
func AppendAudio(dst []byte, samples []float32) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(s))
	}
	return dst
}

// ToS8 scales a component by 127, truncates toward zero and clamps to int8.
func ToS8(x float32) int8 {
	v := math.Trunc(float64(x) * s8Scale)
	switch {
	case math.IsNaN(v):
		return 0
	case v > s8Max:
		return s8Max
	case v < s8Min:
		return s8Min
	}
	return int8(v)
}

func appendS8(dst []byte, samples []complex64) []byte {
	for _, s := range samples {
		dst = append(dst, byte(ToS8(real(s))), byte(ToS8(imag(s))))
	}
	return dst
}

func appendF32(dst []byte, samples []complex64) []byte {
	re := make([]float32, len(samples))
	im := make([]float32, len(samples))
	for i, s := range samples {
		re[i] = real(s)
		im[i] = imag(s)
	}

	interleaved := make([]float32, 2*len(samples))
	f32.Interleave2(interleaved, re, im)
	return AppendAudio(dst, interleaved)
}

func appendReal(dst []byte, samples []complex64) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(real(s)))
	}
	return dst
}

// Decode parses data written in format f back into complex samples. S8
// components are divided by 127; PCM samples get a zero Q component.
func Decode(f Format, data []byte) ([]complex64, error) {
	size := f.BytesPerSample()
	if size == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncated, len(data), size)
	}

	out := make([]complex64, len(data)/size)
	for i := range out {
		chunk := data[i*size : (i+1)*size]
		switch f {
		case FormatS8:
			out[i] = complex(float32(int8(chunk[0]))/s8Scale, float32(int8(chunk[1]))/s8Scale)
		case FormatF32:
			out[i] = complex(
				math.Float32frombits(binary.LittleEndian.Uint32(chunk)),
				math.Float32frombits(binary.LittleEndian.Uint32(chunk[float32Size:])))
		case FormatPCM:
			out[i] = complex(math.Float32frombits(binary.LittleEndian.Uint32(chunk)), 0)
		}
	}
	return out, nil
}
