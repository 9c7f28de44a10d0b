package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings is the runtime-adjustable configuration read by the simulation on
// every ingestion tick. Values outside the allowed ranges are clamped.
type Settings struct {
	RhythmFactor float64 `toml:"rhythm_factor"`
	DecayRate    float64 `toml:"decay_rate"`
	MaxParticles int     `toml:"max_particles"`
	Gradient     bool    `toml:"gradient"`
	DarkMode     bool    `toml:"dark_mode"`
}

func DefaultSettings() Settings {
	return Settings{
		RhythmFactor: DefaultRhythmFactor,
		DecayRate:    DefaultDecayRate,
		MaxParticles: DefaultMaxParticles,
		Gradient:     true,
		DarkMode:     true,
	}
}

// Clamped returns s with every numeric field forced into its range.
func (s Settings) Clamped() Settings {
	s.RhythmFactor = clampFloat(s.RhythmFactor, MinRhythmFactor, MaxRhythmFactor, DefaultRhythmFactor)
	s.DecayRate = clampFloat(s.DecayRate, MinDecayRate, MaxDecayRate, DefaultDecayRate)
	if s.MaxParticles < MinMaxParticles {
		s.MaxParticles = MinMaxParticles
	}
	if s.MaxParticles > MaxMaxParticles {
		s.MaxParticles = MaxMaxParticles
	}
	return s
}

func clampFloat(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, v))
}

// StepRhythmFactor nudges the rhythm gain by n steps.
func (s Settings) StepRhythmFactor(n int) Settings {
	s.RhythmFactor = roundTo(s.RhythmFactor+float64(n)*RhythmFactorStep, RhythmFactorStep)
	return s.Clamped()
}

// StepDecayRate nudges the decay rate by n steps.
func (s Settings) StepDecayRate(n int) Settings {
	s.DecayRate = roundTo(s.DecayRate+float64(n)*DecayRateStep, DecayRateStep)
	return s.Clamped()
}

// StepMaxParticles nudges the store capacity by n steps.
func (s Settings) StepMaxParticles(n int) Settings {
	s.MaxParticles += n * MaxParticlesStep
	return s.Clamped()
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

func (s Settings) String() string {
	return fmt.Sprintf("rhythm=%.3f decay=%.3f max=%d gradient=%t",
		s.RhythmFactor, s.DecayRate, s.MaxParticles, s.Gradient)
}

// LoadSettings reads a TOML settings file on top of base. Keys missing from
// the file keep base's value. A missing file returns base unchanged together
// with an error wrapping os.ErrNotExist.
func LoadSettings(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read settings %s: %w", path, err)
	}
	s := base
	if _, err := toml.Decode(string(data), &s); err != nil {
		return base, fmt.Errorf("decode settings %s: %w", path, err)
	}
	return s.Clamped(), nil
}

// SaveSettings writes s as TOML, creating or truncating path.
func SaveSettings(path string, s Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings %s: %w", path, err)
	}
	encErr := toml.NewEncoder(f).Encode(s.Clamped())
	closeErr := f.Close()
	if err := errors.Join(encErr, closeErr); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}
