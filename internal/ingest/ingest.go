package ingest

import (
	"strings"

	"github.com/iburimskiy/pulse-visualization/internal/config"
	"github.com/iburimskiy/pulse-visualization/internal/log"
	"github.com/iburimskiy/pulse-visualization/internal/particle"
)

// Env is the live state an inbound frame is applied against. The owner
// supplies it on every call so spawns use the current surface size and
// settings, never values captured when the connection was set up.
type Env struct {
	Settings config.Settings
	Width    float64
	Height   float64
}

// Hooks are optional observers invoked after a frame has been applied.
type Hooks struct {
	OnDevices  func(devices []Device, selected Device, ok bool)
	OnFeatures func(f Features)
	OnBeat     func(id particle.ID)
}

// Ingestor applies decoded frames. It must be driven from the same loop
// that renders the store.
type Ingestor struct {
	store *particle.Store
	mode  Mode
	hooks Hooks
	log   *log.Logger

	devices  []Device
	selected Device
	hasSel   bool

	handled  uint64
	rejected uint64
}

func New(store *particle.Store, mode Mode, hooks Hooks, logger *log.Logger) *Ingestor {
	return &Ingestor{store: store, mode: mode, hooks: hooks, log: logger}
}

// Handle decodes and applies one frame. A frame that fails to decode is
// logged and dropped without touching any state; the error is returned for
// callers that count failures.
func (in *Ingestor) Handle(frame []byte, env Env) error {
	msg, err := Decode(frame, in.mode)
	if err != nil {
		in.rejected++
		in.log.Warnf("dropping %s frame: %v", in.mode, err)
		return err
	}
	in.handled++

	switch msg.Type {
	case TypeDeviceList:
		in.applyDevices(msg.Devices)
	case TypeAudioData:
		in.applyFeatures(msg.Features, env)
	}
	return nil
}

func (in *Ingestor) applyDevices(devices []Device) {
	in.devices = append([]Device(nil), devices...)
	in.selected, in.hasSel = DefaultDevice(in.devices)
	if in.hasSel {
		in.log.Infof("received %d devices, default %d (%s)", len(devices), in.selected.Index, in.selected.Name)
	} else {
		in.log.Infof("received %d devices, no default", len(devices))
	}
	if in.hooks.OnDevices != nil {
		in.hooks.OnDevices(in.Devices(), in.selected, in.hasSel)
	}
}

func (in *Ingestor) applyFeatures(f Features, env Env) {
	s := env.Settings.Clamped()
	in.store.SetCapacity(s.MaxParticles)
	if f.IsBeat {
		id := in.store.Spawn(env.Width/2, env.Height/2)
		if in.hooks.OnBeat != nil {
			in.hooks.OnBeat(id)
		}
	}
	in.store.Tick(f.RhythmFactor, s.RhythmFactor, s.DecayRate)
	if in.hooks.OnFeatures != nil {
		in.hooks.OnFeatures(f)
	}
}

// Devices returns a copy of the known device list.
func (in *Ingestor) Devices() []Device {
	return append([]Device(nil), in.devices...)
}

// Selected returns the currently selected device, if any.
func (in *Ingestor) Selected() (Device, bool) {
	return in.selected, in.hasSel
}

// Select marks the device with the given index as selected. It reports
// false if no such device is known.
func (in *Ingestor) Select(index int) bool {
	for _, d := range in.devices {
		if d.Index == index {
			in.selected, in.hasSel = d, true
			return true
		}
	}
	return false
}

// Next returns the device after the current selection, wrapping around.
func (in *Ingestor) Next() (Device, bool) {
	if len(in.devices) == 0 {
		return Device{}, false
	}
	if !in.hasSel {
		return in.devices[0], true
	}
	for i, d := range in.devices {
		if d.Index == in.selected.Index {
			return in.devices[(i+1)%len(in.devices)], true
		}
	}
	return in.devices[0], true
}

// Stats returns accepted and rejected frame counts.
func (in *Ingestor) Stats() (handled, rejected uint64) {
	return in.handled, in.rejected
}

// DefaultDevice picks the first device whose name contains "stereo mix"
// (any case), else the device at the fallback position, else none.
func DefaultDevice(devices []Device) (Device, bool) {
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), "stereo mix") {
			return d, true
		}
	}
	if config.FallbackDevicePosition < len(devices) {
		return devices[config.FallbackDevicePosition], true
	}
	return Device{}, false
}
