package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pulse-visualization/internal/render"
)

// gradientSegments is how many pieces each polygon edge is split into so the
// stroke color can follow the horizontal gradient.
const gradientSegments = 6

// canvasSurface is the offscreen image particles are painted on. It is
// replaced, not resized, when the window changes size.
type canvasSurface struct {
	img *ebiten.Image
}

func newCanvasSurface(w, h int) *canvasSurface {
	return &canvasSurface{img: ebiten.NewImage(w, h)}
}

func (s *canvasSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *canvasSurface) Clear() {
	s.img.Clear()
}

func (s *canvasSurface) StrokePolygon(points []render.Point, paint render.Paint) {
	if len(points) < 2 {
		return
	}
	segments := 1
	if paint.Gradient {
		segments = gradientSegments
	}
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		for k := 0; k < segments; k++ {
			t0 := float64(k) / float64(segments)
			t1 := float64(k+1) / float64(segments)
			x0, y0 := a.X+(b.X-a.X)*t0, a.Y+(b.Y-a.Y)*t0
			x1, y1 := a.X+(b.X-a.X)*t1, a.Y+(b.Y-a.Y)*t1
			clr := paint.At((x0 + x1) / 2)
			vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(paint.Width), clr, true)
		}
	}
}

func (s *canvasSurface) Dispose() {
	s.img.Deallocate()
}
