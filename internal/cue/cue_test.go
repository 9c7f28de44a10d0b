package cue

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
)

func drainStreamer(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 64)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestClickLengthAndDecay(t *testing.T) {
	sr := beep.SampleRate(8000)
	samples := drainStreamer(Click(sr, 50*time.Millisecond, 440, 0.5))

	if len(samples) != sr.N(50*time.Millisecond) {
		t.Fatalf("expected %d samples, got %d", sr.N(50*time.Millisecond), len(samples))
	}
	peak := func(from, to int) float64 {
		m := 0.0
		for _, s := range samples[from:to] {
			m = math.Max(m, math.Abs(s[0]))
			if s[0] != s[1] {
				t.Fatal("click is not mono")
			}
		}
		return m
	}
	q := len(samples) / 4
	head, tail := peak(0, q), peak(3*q, len(samples))
	if head > 0.5 {
		t.Fatalf("peak %v exceeds gain", head)
	}
	if tail >= head {
		t.Fatalf("click does not decay: head %v tail %v", head, tail)
	}
}

func TestPlayerLazyInitAndDisable(t *testing.T) {
	inits, plays := 0, 0
	p := &Player{
		enabled: true,
		init:    func(beep.SampleRate, int) error { inits++; return nil },
		play:    func(...beep.Streamer) { plays++ },
	}
	for i := 0; i < 3; i++ {
		if err := p.Beat(); err != nil {
			t.Fatal(err)
		}
	}
	if inits != 1 || plays != 3 || p.Played() != 3 {
		t.Fatalf("inits=%d plays=%d", inits, plays)
	}
	p.SetEnabled(false)
	if p.Enabled() {
		t.Fatal("still enabled after SetEnabled(false)")
	}
	p.Beat()
	if plays != 3 {
		t.Fatal("played while disabled")
	}
}

func TestPlayerInitFailureIsSticky(t *testing.T) {
	inits := 0
	boom := errors.New("no device")
	p := &Player{
		enabled: true,
		init:    func(beep.SampleRate, int) error { inits++; return boom },
		play:    func(...beep.Streamer) { t.Fatal("play after failed init") },
	}
	if err := p.Beat(); !errors.Is(err, boom) {
		t.Fatalf("expected init error, got %v", err)
	}
	if err := p.Beat(); !errors.Is(err, boom) {
		t.Fatalf("expected sticky error, got %v", err)
	}
	if inits != 1 {
		t.Fatalf("init retried %d times", inits)
	}
}
