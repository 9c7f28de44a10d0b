package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/crazy3lf/colorconv"
)

// hueColor converts HSV (hue: any degrees, saturation/value: 0-1) into a
// premultiplied color with the given alpha.
func hueColor(h, s, v, alpha float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSVToRGB(h, clamp01(s), clamp01(v))
	if err != nil {
		r, g, b = 128, 128, 128
	}
	a := clamp01(alpha)
	return color.RGBA{
		R: uint8(float64(r) * a),
		G: uint8(float64(g) * a),
		B: uint8(float64(b) * a),
		A: uint8(255 * a),
	}
}

// clamp01 maps NaN to 0 so a bad rhythm value never reaches the meter.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// formatUptime renders connected time as M:SS, or H:MM:SS after an hour.
// Negative spans (clock steps) show as zero.
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
