package render

import (
	"testing"

	"github.com/iburimskiy/pulse-visualization/internal/particle"
)

// fakeFrames fires at most one batch of callbacks per Step, like a display
// refresh.
type fakeFrames struct {
	next    FrameID
	pending map[FrameID]func()
	cancels int
}

func newFakeFrames() *fakeFrames {
	return &fakeFrames{pending: map[FrameID]func(){}}
}

func (f *fakeFrames) RequestFrame(fn func()) FrameID {
	f.next++
	f.pending[f.next] = fn
	return f.next
}

func (f *fakeFrames) CancelFrame(id FrameID) {
	if _, ok := f.pending[id]; ok {
		f.cancels++
		delete(f.pending, id)
	}
}

func (f *fakeFrames) Step() {
	batch := f.pending
	f.pending = map[FrameID]func(){}
	for _, fn := range batch {
		fn()
	}
}

func newTestLoop(f *fakeFrames, s *fakeSurface) *Loop {
	ps := []particle.Particle{{X: 5, Y: 5, Radius: 2, Vertices: 3, Energy: 255}}
	return NewLoop(f,
		func() Surface {
			if s == nil {
				return nil
			}
			return s
		},
		func() []particle.Particle { return ps },
		func() (bool, float64) { return false, 1 },
	)
}

func TestLoopDrawsOncePerFrameWhilePlaying(t *testing.T) {
	f := newFakeFrames()
	s := &fakeSurface{w: 10, h: 10}
	l := newTestLoop(f, s)

	l.Play()
	for i := 0; i < 30; i++ {
		f.Step()
	}
	if l.Frames() != 30 || s.clears != 30 {
		t.Fatalf("expected 30 frames, got %d (clears %d)", l.Frames(), s.clears)
	}
	if len(f.pending) != 1 {
		t.Fatalf("expected exactly one pending frame, got %d", len(f.pending))
	}
}

func TestPauseCancelsPendingFrame(t *testing.T) {
	f := newFakeFrames()
	s := &fakeSurface{w: 10, h: 10}
	l := newTestLoop(f, s)

	l.Play()
	f.Step()
	l.Pause()

	if len(f.pending) != 0 || f.cancels != 1 {
		t.Fatalf("pause left %d pending frames (%d cancels)", len(f.pending), f.cancels)
	}
	for i := 0; i < 60; i++ {
		f.Step()
	}
	if l.Frames() != 1 {
		t.Fatalf("frames drawn while paused: %d", l.Frames()-1)
	}

	l.Play()
	for i := 0; i < 10; i++ {
		f.Step()
	}
	if l.Frames() != 11 {
		t.Fatalf("resume should restart drawing, frames = %d", l.Frames())
	}
}

func TestToggleAndRepeatedPlayKeepSingleRequest(t *testing.T) {
	f := newFakeFrames()
	l := newTestLoop(f, &fakeSurface{})

	l.Play()
	l.Play()
	if len(f.pending) != 1 {
		t.Fatalf("double Play scheduled %d frames", len(f.pending))
	}
	if l.Toggle() {
		t.Fatal("toggle from playing should pause")
	}
	if !l.Toggle() {
		t.Fatal("toggle from paused should play")
	}
	if len(f.pending) != 1 {
		t.Fatalf("expected one pending frame after toggles, got %d", len(f.pending))
	}
}

func TestLoopSkipsUnmountedSurface(t *testing.T) {
	f := newFakeFrames()
	l := newTestLoop(f, nil)

	l.Play()
	f.Step()
	f.Step()
	if l.Frames() != 0 {
		t.Fatalf("drew %d frames without a surface", l.Frames())
	}
	if len(f.pending) != 1 {
		t.Fatal("loop stopped rescheduling while unmounted")
	}
}
