// Package loop provides the single-threaded event loop every stateful
// component runs on. Background goroutines (socket readers, timers, file
// watchers) never touch state directly; they Post a closure and the owner
// drains the queue from its frame callback.
package loop

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQueueSize bounds pending callbacks between drains.
const DefaultQueueSize = 1024

// Loop is a FIFO of callbacks executed by whoever calls Drain.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

func New(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and returns false once
// the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Drain runs queued callbacks on the calling goroutine until the queue is
// empty or max callbacks have run (max <= 0 means no limit). Callbacks posted
// while draining run in the same pass if the limit allows.
func (l *Loop) Drain(max int) int {
	n := 0
	for max <= 0 || n < max {
		if l.closed.Load() {
			return n
		}
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
	return n
}

// Pending reports the number of queued callbacks.
func (l *Loop) Pending() int {
	return len(l.queue)
}

// Close stops accepting work. Queued callbacks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	return l.closed.Load()
}

// Timer is a cancellable deferred callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock schedules callbacks that run on the loop.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// loopTimer wraps time.AfterFunc so the callback is executed by Drain, and
// a Stop that races with an already-posted callback still wins.
type loopTimer struct {
	t     *time.Timer
	state atomic.Int32 // 0 pending, 1 fired, 2 stopped
}

func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(0, 2) {
		return false
	}
	t.t.Stop()
	return true
}

// AfterFunc makes Loop a Clock backed by wall time.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.state.CompareAndSwap(0, 1) {
				fn()
			}
		})
	})
	return lt
}
