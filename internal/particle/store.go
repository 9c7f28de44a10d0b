package particle

import (
	"math/rand"
	"time"
)

// Store is the ordered, bounded set of live particles. Insertion order is
// spawn order.
//
// Every mutation installs a fresh slice, so a Snapshot taken by the renderer
// stays valid and unchanged while the ingestion path keeps going. Both paths
// must run on the same event loop; Store has no lock.
type Store struct {
	particles []Particle
	capacity  int
	rng       *rand.Rand
}

// NewStore creates an empty store holding at most capacity particles.
// A nil rng seeds one from the clock.
func NewStore(capacity int, rng *rand.Rand) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Store{capacity: capacity, rng: rng}
}

// Capacity returns the current cap.
func (s *Store) Capacity() int {
	return s.capacity
}

// SetCapacity changes the cap, evicting the oldest particles if the store is
// now over it.
func (s *Store) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	s.capacity = n
	if len(s.particles) > n {
		s.particles = cloneTail(s.particles, n)
	}
}

// Spawn appends a new particle centered on (x, y), evicting from the front
// when the cap is exceeded.
func (s *Store) Spawn(x, y float64) ID {
	p := newParticle(s.rng, x, y)

	keep := len(s.particles)
	if keep >= s.capacity {
		keep = s.capacity - 1
	}
	next := make([]Particle, 0, keep+1)
	next = append(next, s.particles[len(s.particles)-keep:]...)
	next = append(next, p)
	s.particles = next
	return p.ID
}

// Tick advances every particle one generation and drops the ones whose
// energy fell to the retention threshold or below.
func (s *Store) Tick(intensity, rhythmFactor, decayRate float64) {
	in := TickInput{Intensity: intensity, RhythmFactor: rhythmFactor, DecayRate: decayRate}
	next := make([]Particle, 0, len(s.particles))
	for _, p := range s.particles {
		p = Advance(p, in)
		if p.Alive() {
			next = append(next, p)
		}
	}
	s.particles = next
}

// Clear removes every particle.
func (s *Store) Clear() {
	s.particles = nil
}

// Len returns the number of live particles.
func (s *Store) Len() int {
	return len(s.particles)
}

// Snapshot returns the current generation, oldest first. Callers must not
// modify the returned slice.
func (s *Store) Snapshot() []Particle {
	return s.particles
}

func cloneTail(ps []Particle, n int) []Particle {
	out := make([]Particle, n)
	copy(out, ps[len(ps)-n:])
	return out
}
