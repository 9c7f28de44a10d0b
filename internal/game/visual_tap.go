package game

// rhythmSample is one analyzer frame as seen by the meter.
type rhythmSample struct {
	level float64
	beat  bool
}

// rhythmTap records the last N rhythm intensities into a ring buffer so the
// overlay can draw a meter from recently received frames.
type rhythmTap struct {
	buffer    []rhythmSample
	nextIndex int
	filled    int
}

func newRhythmTap(ringSize int) *rhythmTap {
	return &rhythmTap{buffer: make([]rhythmSample, ringSize)}
}

func (t *rhythmTap) Record(level float64, beat bool) {
	t.buffer[t.nextIndex] = rhythmSample{level: clamp01(level), beat: beat}
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
}

func (t *rhythmTap) Reset() {
	t.nextIndex = 0
	t.filled = 0
}

// snapshot returns up to the last n samples (most recent last).
func (t *rhythmTap) snapshot(n int) []rhythmSample {
	if n > t.filled {
		n = t.filled
	}
	out := make([]rhythmSample, n)
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	for i := n - 1; i >= 0; i-- {
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		out[i] = t.buffer[idx]
		idx--
	}
	return out
}
