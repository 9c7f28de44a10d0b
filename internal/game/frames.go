package game

import "github.com/iburimskiy/pulse-visualization/internal/render"

// frameQueue implements render.FrameScheduler on top of ebiten's Draw: every
// callback requested before a Draw runs exactly once during it.
type frameQueue struct {
	next    render.FrameID
	pending []pendingFrame
}

type pendingFrame struct {
	id render.FrameID
	fn func()
}

func (q *frameQueue) RequestFrame(fn func()) render.FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, fn: fn})
	return q.next
}

func (q *frameQueue) CancelFrame(id render.FrameID) {
	for i, p := range q.pending {
		if p.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Fire runs the callbacks pending at the start of the call. Callbacks
// requested while firing wait for the next frame.
func (q *frameQueue) Fire() int {
	batch := q.pending
	q.pending = nil
	for _, p := range batch {
		p.fn()
	}
	return len(batch)
}

func (q *frameQueue) Len() int {
	return len(q.pending)
}
