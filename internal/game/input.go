package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/pulse-visualization/internal/config"
)

type action int

const (
	actionNone action = iota
	actionRhythmDown
	actionRhythmUp
	actionDecayDown
	actionDecayUp
	actionParticlesDown
	actionParticlesUp
	actionToggleGradient
	actionToggleDark
	actionToggleFullscreen
	actionTogglePlay
	actionReset
	actionNextDevice
	actionReconnect
	actionQuit
)

// keyBindings is scanned in order every Update.
var keyBindings = []struct {
	key ebiten.Key
	act action
}{
	{ebiten.KeyBracketLeft, actionRhythmDown},
	{ebiten.KeyBracketRight, actionRhythmUp},
	{ebiten.KeyMinus, actionDecayDown},
	{ebiten.KeyEqual, actionDecayUp},
	{ebiten.KeyComma, actionParticlesDown},
	{ebiten.KeyPeriod, actionParticlesUp},
	{ebiten.KeyG, actionToggleGradient},
	{ebiten.KeyD, actionToggleDark},
	{ebiten.KeyF, actionToggleFullscreen},
	{ebiten.KeySpace, actionTogglePlay},
	{ebiten.KeyR, actionReset},
	{ebiten.KeyTab, actionNextDevice},
	{ebiten.KeyF5, actionReconnect},
	{ebiten.KeyEscape, actionQuit},
	{ebiten.KeyQ, actionQuit},
}

func (g *game) handleInput() error {
	for _, b := range keyBindings {
		if !inpututil.IsKeyJustPressed(b.key) {
			continue
		}
		if err := g.perform(b.act); err != nil {
			return err
		}
	}
	return nil
}

// perform applies one user action. Only actionQuit returns an error.
func (g *game) perform(a action) error {
	switch a {
	case actionRhythmDown:
		g.updateSettings(g.settings.StepRhythmFactor(-1))
	case actionRhythmUp:
		g.updateSettings(g.settings.StepRhythmFactor(1))
	case actionDecayDown:
		g.updateSettings(g.settings.StepDecayRate(-1))
	case actionDecayUp:
		g.updateSettings(g.settings.StepDecayRate(1))
	case actionParticlesDown:
		g.updateSettings(g.settings.StepMaxParticles(-1))
	case actionParticlesUp:
		g.updateSettings(g.settings.StepMaxParticles(1))
	case actionToggleGradient:
		s := g.settings
		s.Gradient = !s.Gradient
		g.updateSettings(s)
	case actionToggleDark:
		s := g.settings
		s.DarkMode = !s.DarkMode
		g.updateSettings(s)
	case actionToggleFullscreen:
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case actionTogglePlay:
		if g.painter.Toggle() {
			g.setNotice("Playing")
		} else {
			g.setNotice("Paused")
		}
	case actionReset:
		g.store.Clear()
		g.rhythm.Reset()
		g.setNotice("Cleared")
	case actionNextDevice:
		g.nextDevice()
	case actionReconnect:
		if !g.conn.Reconnect() {
			g.setNotice("Already " + g.status.Phase.String())
			return nil
		}
		g.setNotice("Reconnecting...")
	case actionQuit:
		return ebiten.Termination
	}
	return nil
}

func (g *game) updateSettings(s config.Settings) {
	g.applySettings(s)
	g.setNotice(g.settings.String())
}

// nextDevice asks the analyzer for the next input. The local selection moves
// only once the request has been written.
func (g *game) nextDevice() {
	d, ok := g.ingest.Next()
	if !ok {
		g.setNotice("No devices")
		return
	}
	if !g.conn.SelectDevice(d.Index) {
		g.setNotice("Not connected")
		return
	}
	g.ingest.Select(d.Index)
	g.setNotice(fmt.Sprintf("Device %d: %s", d.Index, d.Name))
}
