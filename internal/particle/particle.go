// Package particle holds the beat-spawned polygons and the store that ages
// them on every ingestion tick.
package particle

import (
	"image/color"
	"math/rand"

	"github.com/google/uuid"

	"github.com/iburimskiy/pulse-visualization/internal/config"
)

// ID identifies a particle for its whole life.
type ID = uuid.UUID

// Particle is a value; every tick produces a new generation through Advance.
type Particle struct {
	ID ID

	// Center, fixed at spawn time.
	X, Y float64

	Radius   float64
	Vertices int

	Primary   color.RGBA
	Secondary color.RGBA

	Energy float64
}

// Alive reports whether the particle is still rendered and retained.
func (p Particle) Alive() bool {
	return p.Energy > config.RetainThreshold
}

// Alpha maps energy onto [0,1] opacity.
func (p Particle) Alpha() float64 {
	a := p.Energy / config.MaxEnergy
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// TickInput carries the per-message values that drive a generation step.
type TickInput struct {
	Intensity    float64 // rhythm intensity reported by the analyzer
	RhythmFactor float64 // gain from settings
	DecayRate    float64 // multiplicative energy decay, in (0,1)
}

// Advance returns the next generation of p. Radius and energy are computed
// from the same previous state.
func Advance(p Particle, in TickInput) Particle {
	next := p
	next.Radius = p.Radius + in.Intensity*in.RhythmFactor*p.Radius - config.DragConstant
	next.Energy = p.Energy * in.DecayRate
	return next
}

// newParticle builds a full-energy particle with random geometry and colors.
func newParticle(rng *rand.Rand, x, y float64) Particle {
	span := config.MaxVertices - config.MinVertices + 1
	return Particle{
		ID:        uuid.New(),
		X:         x,
		Y:         y,
		Radius:    config.InitialRadius,
		Vertices:  config.MinVertices + rng.Intn(span),
		Primary:   randomColor(rng),
		Secondary: randomColor(rng),
		Energy:    config.MaxEnergy,
	}
}

func randomColor(rng *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(rng.Intn(255)),
		G: uint8(rng.Intn(255)),
		B: uint8(rng.Intn(255)),
		A: 255,
	}
}
