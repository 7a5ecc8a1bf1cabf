// Package audio synthesizes the short notification tones played when a
// rest countdown ends. Tones are generated in memory rather than shipped
// as asset files, so the binary stays self-contained.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player owns the speaker and plays the notification cues. A disabled or
// failed Player degrades to silence: audio is a convenience, never a
// reason for a session operation to fail.
type Player struct {
	log     *slog.Logger
	enabled bool

	mu   sync.Mutex
	init bool
}

// NewPlayer creates a Player. The speaker is initialized lazily on first
// play so headless environments (and tests) never touch an audio device.
func NewPlayer(enabled bool, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{log: log, enabled: enabled}
}

func (p *Player) ensureSpeaker() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.init {
		return nil
	}
	err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond))
	if err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	p.init = true
	return nil
}

func (p *Player) play(s beep.Streamer, what string) {
	if !p.enabled {
		return
	}
	if err := p.ensureSpeaker(); err != nil {
		p.log.Error("audio unavailable", "sound", what, "error", err)
		p.enabled = false
		return
	}
	speaker.Play(s)
}

// RestDone plays the main rest-over cue: a half-second sweep falling from
// 880Hz to 440Hz.
func (p *Player) RestDone() {
	p.play(sweep(880, 440, 500*time.Millisecond, 0.5), "rest_done")
}

// SubInterval plays the quieter intra-set cue used by interval-style
// exercises: a short 500Hz blip.
func (p *Player) SubInterval() {
	p.play(tone(500, 200*time.Millisecond, 0.1), "sub_interval")
}

// tone returns a fixed-frequency sine burst.
func tone(freq float64, d time.Duration, gain float64) beep.Streamer {
	return sweep(freq, freq, d, gain)
}

// sweep returns a sine burst whose frequency glides linearly from one
// pitch to another over the duration.
func sweep(from, to float64, d time.Duration, gain float64) beep.Streamer {
	total := sampleRate.N(d)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := len(samples)
		if rem := total - pos; n > rem {
			n = rem
		}
		for i := 0; i < n; i++ {
			progress := float64(pos+i) / float64(total)
			freq := from + (to-from)*progress
			phase += 2 * math.Pi * freq / float64(sampleRate)
			v := math.Sin(phase) * gain
			samples[i][0] = v
			samples[i][1] = v
		}
		pos += n
		return n, true
	})
}
