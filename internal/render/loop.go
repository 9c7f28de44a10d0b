package render

import (
	"github.com/iburimskiy/pulse-visualization/internal/particle"
)

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// FrameScheduler runs a callback at the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Loop is the self-rescheduling draw pass. It reads particles through
// source and never mutates them.
type Loop struct {
	frames  FrameScheduler
	surface func() Surface
	source  func() []particle.Particle
	style   func() (gradient bool, width float64)

	playing bool
	pending FrameID
	drawn   uint64
}

// NewLoop creates a paused loop. surface may return nil while no surface is
// mounted; the frame is then skipped but the loop keeps scheduling.
func NewLoop(frames FrameScheduler, surface func() Surface, source func() []particle.Particle,
	style func() (bool, float64)) *Loop {
	return &Loop{frames: frames, surface: surface, source: source, style: style}
}

// Play starts scheduling frames. Calling it while playing is a no-op.
func (l *Loop) Play() {
	if l.playing {
		return
	}
	l.playing = true
	l.schedule()
}

// Pause cancels the pending frame. No frame is drawn until Play.
func (l *Loop) Pause() {
	if !l.playing {
		return
	}
	l.playing = false
	if l.pending != 0 {
		l.frames.CancelFrame(l.pending)
		l.pending = 0
	}
}

// Toggle flips between playing and paused and returns the new state.
func (l *Loop) Toggle() bool {
	if l.playing {
		l.Pause()
	} else {
		l.Play()
	}
	return l.playing
}

// Playing reports the play state.
func (l *Loop) Playing() bool {
	return l.playing
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() uint64 {
	return l.drawn
}

func (l *Loop) schedule() {
	if l.pending != 0 {
		return
	}
	l.pending = l.frames.RequestFrame(l.frame)
}

func (l *Loop) frame() {
	l.pending = 0
	if !l.playing {
		return
	}
	if s := l.surface(); s != nil {
		gradient, width := l.style()
		DrawParticles(s, l.source(), gradient, width)
		l.drawn++
	}
	l.schedule()
}
