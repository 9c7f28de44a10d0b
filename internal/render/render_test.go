package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/iburimskiy/pulse-visualization/internal/particle"
)

type fakeSurface struct {
	w, h     int
	clears   int
	polygons [][]Point
	paints   []Paint
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }
func (s *fakeSurface) Clear() {
	s.clears++
	s.polygons = nil
	s.paints = nil
}
func (s *fakeSurface) StrokePolygon(points []Point, paint Paint) {
	s.polygons = append(s.polygons, points)
	s.paints = append(s.paints, paint)
}

func TestPolygonVerticesOnCircle(t *testing.T) {
	for n := 3; n <= 10; n++ {
		pts := Polygon(100, 50, 20, n)
		if len(pts) != n {
			t.Fatalf("n=%d: got %d points", n, len(pts))
		}
		for i, p := range pts {
			d := math.Hypot(p.X-100, p.Y-50)
			if math.Abs(d-20) > 1e-9 {
				t.Fatalf("n=%d point %d at distance %v", n, i, d)
			}
		}
		if math.Abs(pts[0].X-120) > 1e-9 || math.Abs(pts[0].Y-50) > 1e-9 {
			t.Fatalf("n=%d first vertex %+v, want angle 0", n, pts[0])
		}
		// Equal spacing: consecutive edges have equal length.
		edge := math.Hypot(pts[1].X-pts[0].X, pts[1].Y-pts[0].Y)
		last := math.Hypot(pts[0].X-pts[n-1].X, pts[0].Y-pts[n-1].Y)
		if math.Abs(edge-last) > 1e-9 {
			t.Fatalf("n=%d uneven edges %v vs %v", n, edge, last)
		}
	}
	if Polygon(0, 0, 1, 0) != nil {
		t.Fatal("expected nil polygon for zero vertices")
	}
}

func TestPaintForUsesEnergyAsAlpha(t *testing.T) {
	p := particle.Particle{
		X: 10, Radius: 5,
		Primary:   color.RGBA{R: 200, G: 100, B: 0, A: 255},
		Secondary: color.RGBA{R: 0, G: 0, B: 255, A: 255},
		Energy:    127.5,
	}
	paint := PaintFor(p, true, 2)
	if paint.From.A != 128 {
		t.Errorf("alpha = %d, want 128", paint.From.A)
	}
	if paint.From.R != 100 || paint.From.G != 50 {
		t.Errorf("expected premultiplied color, got %+v", paint.From)
	}
	if paint.X0 != 5 || paint.X1 != 15 {
		t.Errorf("gradient span = [%v,%v], want [5,15]", paint.X0, paint.X1)
	}
}

func TestPaintAt(t *testing.T) {
	paint := Paint{
		From: color.RGBA{R: 0, A: 255}, To: color.RGBA{R: 200, A: 255},
		X0: 0, X1: 10, Gradient: true,
	}
	if c := paint.At(5); c.R != 100 {
		t.Errorf("midpoint R = %d, want 100", c.R)
	}
	if c := paint.At(-5); c.R != 0 {
		t.Errorf("clamped left R = %d, want 0", c.R)
	}
	if c := paint.At(50); c.R != 200 {
		t.Errorf("clamped right R = %d, want 200", c.R)
	}
	paint.Gradient = false
	if c := paint.At(10); c.R != 0 {
		t.Errorf("solid paint should use From, got %d", c.R)
	}
}

func TestDrawParticlesDoesNotMutate(t *testing.T) {
	ps := []particle.Particle{
		{X: 1, Y: 2, Radius: 3, Vertices: 4, Energy: 200},
		{X: 5, Y: 6, Radius: 7, Vertices: 5, Energy: 100},
	}
	before := append([]particle.Particle(nil), ps...)
	s := &fakeSurface{w: 10, h: 10}

	DrawParticles(s, ps, false, 1)

	if s.clears != 1 || len(s.polygons) != 2 {
		t.Fatalf("expected 1 clear and 2 polygons, got %d/%d", s.clears, len(s.polygons))
	}
	if len(s.polygons[1]) != 5 {
		t.Fatalf("expected pentagon, got %d points", len(s.polygons[1]))
	}
	for i := range ps {
		if ps[i] != before[i] {
			t.Fatalf("particle %d mutated by render", i)
		}
	}
}
