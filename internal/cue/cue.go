// Package cue plays a short audible click on every beat.
package cue

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	SampleRate  = beep.SampleRate(44100)
	ClickLength = 40 * time.Millisecond
	ClickFreq   = 1760.0
	ClickGain   = 0.35

	// decay per second of the click envelope
	clickDecay = 80.0
)

// Click returns a streamer producing one exponentially decaying sine burst.
func Click(sr beep.SampleRate, length time.Duration, freq, gain float64) beep.Streamer {
	total := sr.N(length)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / float64(sr)
			v := gain * math.Exp(-clickDecay*t) * math.Sin(2*math.Pi*freq*t)
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// Player sends clicks to the default output device. The speaker is
// initialised lazily on the first click so a missing audio device only
// disables the cue.
type Player struct {
	mu      sync.Mutex
	enabled bool
	ready   bool
	failed  error
	init    func(beep.SampleRate, int) error
	play    func(...beep.Streamer)
	played  int
}

func NewPlayer(enabled bool) *Player {
	return &Player{enabled: enabled, init: speaker.Init, play: speaker.Play}
}

// SetEnabled toggles the cue.
func (p *Player) SetEnabled(on bool) {
	p.mu.Lock()
	p.enabled = on
	p.mu.Unlock()
}

// Enabled reports whether clicks are played.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Beat plays one click. It returns the initialisation error, if the speaker
// could not be opened; later calls are silent no-ops in that case.
func (p *Player) Beat() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || p.failed != nil {
		return p.failed
	}
	if !p.ready {
		if err := p.init(SampleRate, SampleRate.N(time.Second/30)); err != nil {
			p.failed = fmt.Errorf("init speaker: %w", err)
			return p.failed
		}
		p.ready = true
	}
	p.play(Click(SampleRate, ClickLength, ClickFreq, ClickGain))
	p.played++
	return nil
}

// Played returns how many clicks have been started.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}
