package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pulse-visualization/internal/config"
	"github.com/iburimskiy/pulse-visualization/internal/conn"
)

const (
	meterHeight = 40
	meterMargin = 20
	lineHeight  = 16
)

// overlayLines builds the text shown in the top-left corner.
func (g *game) overlayLines(now time.Time) []string {
	status := g.status.String()
	if g.status.Phase == conn.PhaseConnected && !g.connectedAt.IsZero() {
		status += " (up " + formatUptime(now.Sub(g.connectedAt)) + ")"
	}
	lines := []string{status}

	if d, ok := g.ingest.Selected(); ok {
		lines = append(lines, fmt.Sprintf("Device %d: %s (%d available)", d.Index, d.Name, len(g.ingest.Devices())))
	} else if n := len(g.ingest.Devices()); n > 0 {
		lines = append(lines, fmt.Sprintf("Devices: %d, none selected", n))
	}

	lines = append(lines,
		g.settings.String(),
		fmt.Sprintf("Particles: %d/%d", g.store.Len(), g.store.Capacity()),
	)
	if !g.painter.Playing() {
		lines = append(lines, "Paused - Space to resume")
	}
	if g.notice != "" {
		lines = append(lines, g.notice)
	}
	return lines
}

func (g *game) drawOverlay(screen *ebiten.Image) {
	for i, line := range g.overlayLines(time.Now()) {
		ebitenutil.DebugPrintAt(screen, line, 12, 12+i*lineHeight)
	}
}

// drawMeter paints the recent rhythm intensities along the bottom edge.
// Beat frames get a white outline.
func (g *game) drawMeter(screen *ebiten.Image) {
	samples := g.rhythm.snapshot(config.MeterBands)
	if len(samples) == 0 {
		return
	}

	barWidth := g.width - 2*meterMargin
	barX := meterMargin
	barY := g.height - meterHeight - meterMargin
	if barWidth <= 0 || barY <= 0 {
		return
	}
	segmentWidth := float64(barWidth) / float64(config.MeterBands)

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(meterHeight), color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(meterHeight), 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	// Newest sample sits at the right edge.
	offset := config.MeterBands - len(samples)
	for i, s := range samples {
		segmentX := float64(barX) + float64(offset+i)*segmentWidth
		segmentHeight := s.level * float64(meterHeight-6)
		if segmentHeight < 2 {
			segmentHeight = 2
		}
		segmentY := float64(barY) + float64(meterHeight) - segmentHeight

		hue := (g.colorPhase + float64(offset+i)/float64(config.MeterBands)*0.5) * 360
		clr := hueColor(hue, 0.8, 0.9, 0.4+0.6*s.level)
		vector.DrawFilledRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), clr, false)

		if s.beat {
			vector.StrokeRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), 1, color.RGBA{R: 200, G: 200, B: 200, A: 200}, false)
		}
	}

	ebitenutil.DebugPrintAt(screen, "Rhythm", barX, barY-lineHeight)
}
