// Package colorutil provides shared color conversions for screenshot analysis.
package colorutil

import (
	"math"
)

// HSV is a color in hue/saturation/value form.
// H is in degrees [0, 360); S and V are in [0, 1].
// Defined is false for achromatic colors (zero saturation), whose hue is
// meaningless.
type HSV struct {
	H       float64
	S       float64
	V       float64
	Defined bool
}

// FromRGB converts 8-bit RGB to HSV.
func FromRGB(r, g, b uint8) HSV {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	diff := maxC - minC

	out := HSV{V: maxC}
	if maxC > 0 {
		out.S = diff / maxC
	}
	if diff == 0 {
		return out
	}

	switch maxC {
	case rf:
		out.H = 60 * math.Mod((gf-bf)/diff, 6)
	case gf:
		out.H = 60 * ((bf-rf)/diff + 2)
	default:
		out.H = 60 * ((rf-gf)/diff + 4)
	}
	if out.H < 0 {
		out.H += 360
	}
	out.Defined = true
	return out
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	c := FromRGB(uint8(r), uint8(g), uint8(b))
	return c.H / 2, c.S * 255.0, c.V * 255.0
}

// HueDistance returns the circular distance between two hues in degrees,
// in the range [0, 180].
func HueDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HueProximity maps a pixel's closeness to a base hue onto 0-255:
// 255 at the base hue, falling linearly to 0 at 90 degrees or more away.
// Undefined hues count as 180 degrees away.
func HueProximity(c HSV, base float64) uint8 {
	d := 180.0
	if c.Defined {
		d = HueDistance(base, c.H)
	}
	d = math.Min(d, 90)
	return uint8(math.Round(255 * (1 - d/90)))
}

// InverseSaturation maps saturation onto 0-255 with grey pixels brightest.
func InverseSaturation(c HSV) uint8 {
	return uint8(math.Round(255 * (1 - c.S)))
}
