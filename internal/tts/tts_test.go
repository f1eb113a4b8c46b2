package tts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-baseband/internal/voice"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty text", Request{Text: "  ", Volume: 1}},
		{"negative rate", Request{Text: "hi", SampleRate: -1, Volume: 1}},
		{"loud", Request{Text: "hi", Volume: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.req.Validate(), ErrInvalidRequest)
		})
	}
	require.NoError(t, (&Request{Text: "hi", Volume: 0.5}).Validate())
}

func TestESpeak_Args(t *testing.T) {
	e := &ESpeak{Voice: "en-us"}
	assert.Equal(t,
		[]string{"-w", "out.wav", "-s", "150", "-v", "en-us", "--", "-dash text"},
		e.args("out.wav", "-dash text"))
}

func TestESpeak_MissingBinary(t *testing.T) {
	e := NewESpeak()
	e.Binary = filepath.Join(t.TempDir(), "no-espeak")
	_, err := e.Synthesize(context.Background(), Request{Text: "hello", Volume: 1})
	require.ErrorIs(t, err, ErrUnavailable)
}

// fakeESpeak writes a fixed WAV to the -w argument.
func fakeESpeak(t *testing.T, rate int, samples []float32) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()

	fixture := filepath.Join(dir, "fixture.wav")
	f, err := os.Create(fixture)
	require.NoError(t, err)
	require.NoError(t, voice.WriteWAV(f, &voice.Audio{Samples: samples, SampleRate: rate}))
	require.NoError(t, f.Close())

	script := filepath.Join(dir, "espeak-ng")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp "+fixture+" \"$2\"\n"), 0o700))
	return script
}

func TestESpeak_ScalesAndResamples(t *testing.T) {
	e := NewESpeak()
	e.Binary = fakeESpeak(t, 8000, []float32{0.5, -0.5, 1, 0})

	got, err := e.Synthesize(context.Background(), Request{Text: "hello", SampleRate: 16000, Volume: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 16000, got.SampleRate)
	require.Len(t, got.Samples, 8)

	// Volume applies before the rate change.
	want, err := voice.Resample([]float32{0.25, -0.25, 0.5, 0}, 8000, 16000)
	require.NoError(t, err)
	for i := range want {
		assert.InDelta(t, want[i], got.Samples[i], 2e-4, "sample %d", i)
	}
}

func TestTones_Resamples(t *testing.T) {
	got, err := Tones{Config: voice.DefaultToneConfig()}.Synthesize(context.Background(),
		Request{Text: "a", SampleRate: 16000, Volume: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 16000, got.SampleRate)
	assert.Len(t, got.Samples, 2*(1600+400))
}

func TestESpeak_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "espeak-ng")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho boom >&2\nexit 2\n"), 0o700))

	e := &ESpeak{Binary: script}
	_, err := e.Synthesize(context.Background(), Request{Text: "hello", Volume: 1})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "boom")
}

func TestTones(t *testing.T) {
	var s Synthesizer = Tones{Config: voice.DefaultToneConfig()}
	got, err := s.Synthesize(context.Background(), Request{Text: "ab", Volume: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 8000, got.SampleRate)
	assert.Len(t, got.Samples, 2*(1600+400))
}
