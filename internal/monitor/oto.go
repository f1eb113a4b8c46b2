//go:build monitor

package monitor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/tphakala/go-baseband/internal/voice"
)

const pollInterval = 20 * time.Millisecond

// Available reports whether playback is compiled in.
func Available() bool { return true }

// Play blocks until a has played through or ctx is cancelled. Only one
// sample rate can be used per process.
func Play(ctx context.Context, a *voice.Audio) error {
	pcm, err := PCM16(a)
	if err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   a.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(bytes.NewReader(pcm))
	defer func() { _ = player.Close() }()
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
