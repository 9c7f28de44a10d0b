// Package render paints the particle set onto a 2D surface once per display
// frame while playing.
package render

import (
	"image/color"
	"math"

	"github.com/iburimskiy/pulse-visualization/internal/particle"
)

// Point is a surface coordinate in pixels.
type Point struct {
	X, Y float64
}

// Paint describes a polygon stroke. When Gradient is set the color blends
// linearly from From at x = X0 to To at x = X1.
type Paint struct {
	From, To color.RGBA
	X0, X1   float64
	Gradient bool
	Width    float64
}

// At returns the stroke color at horizontal position x.
func (p Paint) At(x float64) color.RGBA {
	if !p.Gradient || p.X1 == p.X0 {
		return p.From
	}
	t := (x - p.X0) / (p.X1 - p.X0)
	t = math.Max(0, math.Min(1, t))
	return lerpRGBA(p.From, p.To, t)
}

// Surface is the drawing target.
type Surface interface {
	Size() (width, height int)
	Clear()
	StrokePolygon(points []Point, paint Paint)
}

// Polygon returns the vertices of a regular polygon with n points on a
// circle of radius r around (cx, cy), starting at angle 0.
func Polygon(cx, cy, r float64, n int) []Point {
	if n < 1 {
		return nil
	}
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

// PaintFor derives the stroke paint of p. Alpha follows the particle's
// remaining energy.
func PaintFor(p particle.Particle, gradient bool, width float64) Paint {
	alpha := p.Alpha()
	return Paint{
		From:     withAlpha(p.Primary, alpha),
		To:       withAlpha(p.Secondary, alpha),
		X0:       p.X - p.Radius,
		X1:       p.X + p.Radius,
		Gradient: gradient,
		Width:    width,
	}
}

// DrawParticles clears s and strokes every particle, oldest first.
func DrawParticles(s Surface, ps []particle.Particle, gradient bool, width float64) {
	s.Clear()
	for _, p := range ps {
		s.StrokePolygon(Polygon(p.X, p.Y, p.Radius, p.Vertices), PaintFor(p, gradient, width))
	}
}

// withAlpha returns c as a premultiplied color with opacity a.
func withAlpha(c color.RGBA, a float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * a)),
		G: uint8(math.Round(float64(c.G) * a)),
		B: uint8(math.Round(float64(c.B) * a)),
		A: uint8(math.Round(255 * a)),
	}
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
