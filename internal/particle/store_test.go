package particle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iburimskiy/pulse-visualization/internal/config"
)

func newTestStore(capacity int) *Store {
	return NewStore(capacity, rand.New(rand.NewSource(1)))
}

func TestSpawnInitialState(t *testing.T) {
	s := newTestStore(10)
	id := s.Spawn(400, 300)

	snap := s.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 particle, got %d", len(snap))
	}
	p := snap[0]
	if p.ID != id {
		t.Errorf("snapshot id %v != spawn id %v", p.ID, id)
	}
	if p.X != 400 || p.Y != 300 {
		t.Errorf("position = (%v,%v), want (400,300)", p.X, p.Y)
	}
	if p.Energy != config.MaxEnergy {
		t.Errorf("energy = %v, want %v", p.Energy, config.MaxEnergy)
	}
	if p.Radius != config.InitialRadius {
		t.Errorf("radius = %v, want %v", p.Radius, config.InitialRadius)
	}
}

func TestSpawnRandomizedGeometryInRange(t *testing.T) {
	s := newTestStore(200)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		s.Spawn(0, 0)
	}
	for _, p := range s.Snapshot() {
		if p.Vertices < config.MinVertices || p.Vertices > config.MaxVertices {
			t.Fatalf("vertex count %d out of range", p.Vertices)
		}
		seen[p.Vertices] = true
	}
	if len(seen) != config.MaxVertices-config.MinVertices+1 {
		t.Errorf("expected every vertex count to appear, saw %v", seen)
	}
}

func TestSpawnEvictsOldestFirst(t *testing.T) {
	const capacity, extra = 10, 4
	s := newTestStore(capacity)

	var ids []ID
	for i := 0; i < capacity+extra; i++ {
		ids = append(ids, s.Spawn(float64(i), 0))
		if s.Len() > capacity {
			t.Fatalf("store grew to %d, cap %d", s.Len(), capacity)
		}
	}

	snap := s.Snapshot()
	want := ids[extra:]
	if len(snap) != len(want) {
		t.Fatalf("expected %d survivors, got %d", len(want), len(snap))
	}
	for i, p := range snap {
		if p.ID != want[i] {
			t.Fatalf("survivor %d is %v, want %v", i, p.ID, want[i])
		}
	}
}

func TestSetCapacityTrimsImmediately(t *testing.T) {
	s := newTestStore(50)
	var ids []ID
	for i := 0; i < 30; i++ {
		ids = append(ids, s.Spawn(0, 0))
	}
	s.SetCapacity(10)
	if s.Len() != 10 {
		t.Fatalf("expected 10 after shrink, got %d", s.Len())
	}
	if s.Snapshot()[0].ID != ids[20] {
		t.Fatal("shrink did not keep the most recent particles")
	}
}

func TestTickAppliesRadiusAndDecay(t *testing.T) {
	s := newTestStore(10)
	s.Spawn(0, 0)

	s.Tick(0.5, 0.1, 0.9)
	p := s.Snapshot()[0]

	wantRadius := 30 + 0.5*0.1*30 - 1
	if math.Abs(p.Radius-wantRadius) > 1e-9 {
		t.Errorf("radius = %v, want %v", p.Radius, wantRadius)
	}
	if math.Abs(p.Energy-255*0.9) > 1e-9 {
		t.Errorf("energy = %v, want %v", p.Energy, 255*0.9)
	}
}

func TestTickShrinksWithoutRhythm(t *testing.T) {
	s := newTestStore(10)
	s.Spawn(0, 0)
	for i := 0; i < 5; i++ {
		s.Tick(0, 0.05, 0.98)
	}
	if got := s.Snapshot()[0].Radius; got != config.InitialRadius-5 {
		t.Fatalf("radius = %v, want %v", got, config.InitialRadius-5)
	}
}

func TestEnergyFollowsGeometricDecayUntilRemoval(t *testing.T) {
	const decay = 0.98
	s := newTestStore(10)
	s.Spawn(0, 0)

	// First tick at which 255*0.98^t drops to 1 or below.
	removeAt := 0
	for e := config.MaxEnergy; e > config.RetainThreshold; e *= decay {
		removeAt++
	}

	for tick := 1; tick <= removeAt; tick++ {
		s.Tick(0, 0.05, decay)
		want := config.MaxEnergy * math.Pow(decay, float64(tick))
		if tick < removeAt {
			if s.Len() != 1 {
				t.Fatalf("particle removed early at tick %d", tick)
			}
			if got := s.Snapshot()[0].Energy; math.Abs(got-want) > 1e-9 {
				t.Fatalf("tick %d: energy %v, want %v", tick, got, want)
			}
			continue
		}
		if s.Len() != 0 {
			t.Fatalf("particle should be removed at tick %d (energy %v)", tick, want)
		}
	}
}

func TestRetainedParticlesAlwaysAlive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := newTestStore(200)
	for i := 0; i < 2000; i++ {
		if rng.Float64() < 0.3 {
			s.Spawn(rng.Float64()*800, rng.Float64()*600)
		}
		s.Tick(rng.Float64(), 0.005+rng.Float64()*0.195, 0.9+rng.Float64()*0.099)
		for _, p := range s.Snapshot() {
			if p.Energy <= config.RetainThreshold {
				t.Fatalf("iteration %d: retained particle with energy %v", i, p.Energy)
			}
		}
	}
}

func TestSnapshotIsStableAcrossMutation(t *testing.T) {
	s := newTestStore(3)
	s.Spawn(1, 1)
	s.Spawn(2, 2)
	snap := s.Snapshot()
	first := snap[0]

	s.Tick(1, 0.2, 0.5)
	s.Spawn(3, 3)
	s.Spawn(4, 4)

	if len(snap) != 2 || snap[0] != first {
		t.Fatal("snapshot changed after later mutations")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(10)
	s.Spawn(0, 0)
	s.Spawn(0, 0)
	s.Clear()
	if s.Len() != 0 || len(s.Snapshot()) != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestAlpha(t *testing.T) {
	cases := []struct {
		energy float64
		want   float64
	}{
		{255, 1},
		{127.5, 0.5},
		{300, 1},
		{-1, 0},
	}
	for _, tc := range cases {
		if got := (Particle{Energy: tc.energy}).Alpha(); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Alpha(%v) = %v, want %v", tc.energy, got, tc.want)
		}
	}
}
