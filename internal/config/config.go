package config

import "time"

const (
	WindowWidth  = 800
	WindowHeight = 600

	// Endpoint is the local analyzer backend.
	Endpoint = "ws://localhost:8766"

	// Reconnect policy
	ReconnectDelay = 3000 * time.Millisecond
	MaxRetries     = 5
	DialTimeout    = 2 * time.Second

	// Particle simulation
	MaxEnergy       = 255.0
	RetainThreshold = 1.0
	DragConstant    = 1.0
	InitialRadius   = 30.0
	MinVertices     = 3
	MaxVertices     = 10
	StrokeWidth     = 2

	// Device fallback when no "stereo mix" entry exists
	FallbackDevicePosition = 2

	// Rhythm meter
	RhythmRingSize  = 256
	MeterBands      = 64
	ColorShiftSpeed = 0.01

	// Frames drained from the event loop per Update
	MaxEventsPerUpdate = 512
)

// Ranges exposed to the settings surface.
const (
	MinRhythmFactor  = 0.005
	MaxRhythmFactor  = 0.2
	RhythmFactorStep = 0.005

	MinDecayRate  = 0.9
	MaxDecayRate  = 0.999
	DecayRateStep = 0.001

	MinMaxParticles  = 10
	MaxMaxParticles  = 200
	MaxParticlesStep = 10
)

// Defaults
const (
	DefaultRhythmFactor = 0.05
	DefaultDecayRate    = 0.98
	DefaultMaxParticles = 50
)
