package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-baseband"
	"github.com/tphakala/go-baseband/internal/config"
)

func runCLI(t *testing.T, args ...string) ([]byte, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.Bytes(), stderr.String(), err
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iqsynth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_GFSKToStdout(t *testing.T) {
	out, _, err := runCLI(t, "-m", "gfsk", "-f", "s8", "str:1010")
	require.NoError(t, err)
	// 4 bits at 40 samples per bit, two bytes per sample.
	assert.Len(t, out, 4*40*2)
}

func TestRun_FileOutputPattern(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "-m", "qpsk", "-o", "file:"+filepath.Join(dir, "qpsk-%Y.f32"), "str:1101")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "qpsk-*.f32"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.NotContains(t, matches[0], "%Y")

	info, err := os.Stat(matches[0])
	require.NoError(t, err)
	assert.Equal(t, int64(101*8), info.Size())
}

func TestRun_APRSWithPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkt.s8")
	_, logs, err := runCLI(t, "-m", "aprs", "--callsign", "n0call-9", "--position", "49.058333,-72.029167",
		"-o", path, "-v", "Test")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Zero(t, len(data)%2)
	assert.Contains(t, logs, "done")
}

func TestRun_ConfigFile(t *testing.T) {
	cfg := writeYAML(t, `
general:
  modulation: fm
  data: "HI"
  format: pcm
fm:
  sample_rate: 80000
logging:
  level: error
`)
	out, logs, err := runCLI(t, "-c", cfg)
	require.NoError(t, err)
	assert.Empty(t, logs)

	// PCM is one float32 per sample; tones at 8 kHz resampled ×10.
	req := baseband.DefaultRequest(baseband.SchemeFM)
	req.Data = "HI"
	a, err := req.Audio(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, len(a.Samples)*10*4)
}

func TestRun_HackRF(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()
	record := filepath.Join(dir, "args")
	binary := filepath.Join(dir, "hackrf_transfer")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\necho \"$@\" > "+record+"\n"), 0o700))

	cfg := writeYAML(t, `
hackrf:
  binary: `+binary+`
  frequency: 145000000
  repeat: false
`)
	_, _, err := runCLI(t, "-c", cfg, "-m", "aprs", "-o", "hackrf", "Hello")
	require.NoError(t, err)

	args, err := os.ReadFile(record)
	require.NoError(t, err)
	fields := strings.Fields(string(args))
	assert.Contains(t, fields, "145000000")
	assert.Contains(t, fields, "2400000")
	assert.NotContains(t, fields, "-R")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"unknown modulation", []string{"-m", "ofdm", "str:1"}, config.ErrInvalidConfig},
		{"no data", []string{"-m", "gfsk"}, config.ErrInvalidConfig},
		{"bad format", []string{"-f", "wav", "str:1"}, config.ErrInvalidConfig},
		{"missing explicit config", []string{"-c", "/nonexistent/iqsynth.yaml", "str:1"}, errUsage},
		{"two data arguments", []string{"str:1", "str:0"}, errUsage},
		{"position needs two values", []string{"-m", "aprs", "--position", "1", "x"}, errUsage},
		{"position out of range", []string{"-m", "aprs", "--position", "91,0", "x"}, baseband.ErrInvalidConfig},
		{"bad callsign", []string{"-m", "aprs", "--callsign", "WAYTOOLONG", "x"}, baseband.ErrInvalidConfig},
		{"help", []string{"-h"}, pflag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args...)
			require.ErrorIs(t, err, tt.target)
			assert.Empty(t, out)
		})
	}
}

func TestRun_MonitorWithoutPlayback(t *testing.T) {
	out, logs, err := runCLI(t, "-m", "fm", "-f", "s8", "--monitor", "K")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, logs, "monitor")
}
