package screen

import (
	"card-scanner/pkg/geometry"
)

// HSVRange selects pixels by color. Hue uses the OpenCV scale (0-180);
// saturation and value are 0-255. When HueMin > HueMax the hue range wraps
// through 0, which is how reds are selected.
type HSVRange struct {
	HueMin, HueMax float64
	SatMin, SatMax float64
	ValMin, ValMax float64
}

// Contains reports whether an HSV triple (OpenCV scale) falls inside the range.
func (r HSVRange) Contains(h, s, v float64) bool {
	if s < r.SatMin || s > r.SatMax || v < r.ValMin || v > r.ValMax {
		return false
	}
	if r.HueMin <= r.HueMax {
		return h >= r.HueMin && h <= r.HueMax
	}
	return h >= r.HueMin || h <= r.HueMax
}

// Layout describes the fixed geometry of the collection screen: the slot card
// background color, the canonical card size every slot is resampled to, and
// the badge positions inside that canonical card.
type Layout struct {
	// Card background, used to locate slots.
	Background HSVRange

	// Minimum horizontal run (pixels) counted when estimating the slot width.
	MinStreakWidth int

	// Candidate filters. MinSlotFill is the fraction of a candidate that
	// must show card background; empty grid positions have none.
	MinSlotArea    int
	MinSlotFill    float64
	RatioTolerance float64

	// Canonical card size.
	CardWidth  int
	CardHeight int

	// Level badge sub-region of the canonical card and its digit color.
	LevelRegion geometry.Rect
	LevelColor  HSVRange

	// Ones-digit sub-region of the points badge. Higher positions are shifted
	// left by PointsPitch each.
	PointsAnchor geometry.Rect
	PointsPitch  int
	PointsDigits int
	PointsColor  HSVRange
}

// DefaultLayout returns the layout of the collection screen as captured on
// the reference device. The card background is the pale cream of the slot
// frame; level digits are drawn in bright yellow and points digits in white.
func DefaultLayout() Layout {
	return Layout{
		Background: HSVRange{
			HueMin: 15, HueMax: 35, // cream/beige
			SatMin: 20, SatMax: 110,
			ValMin: 180, ValMax: 255,
		},
		MinStreakWidth: 24,

		MinSlotArea:    400,
		MinSlotFill:    0.25,
		RatioTolerance: 0.1,

		CardWidth:  160,
		CardHeight: 192,

		LevelRegion: geometry.Rect{Left: 4, Top: 4, Right: 40, Bottom: 56},
		LevelColor: HSVRange{
			HueMin: 25, HueMax: 35, // yellow
			SatMin: 150, SatMax: 255,
			ValMin: 150, ValMax: 255,
		},

		PointsAnchor: geometry.Rect{Left: 128, Top: 138, Right: 155, Bottom: 185},
		PointsPitch:  22,
		PointsDigits: 4,
		PointsColor: HSVRange{
			HueMin: 0, HueMax: 180, // white: any hue, no saturation
			SatMin: 0, SatMax: 40,
			ValMin: 220, ValMax: 255,
		},
	}
}

// CardRatio returns the canonical card aspect ratio (width/height).
func (l Layout) CardRatio() float64 {
	return geometry.Size{Width: l.CardWidth, Height: l.CardHeight}.Ratio()
}

// PointsRegion returns the sub-region for decimal position p (0 = ones).
func (l Layout) PointsRegion(p int) geometry.Rect {
	return l.PointsAnchor.Translate(-p*l.PointsPitch, 0)
}

// WithBackground returns a copy of the layout with a custom slot background range.
// Useful when the screen theme differs from the reference device.
func (l Layout) WithBackground(r HSVRange) Layout {
	l.Background = r
	return l
}

// WithCardSize returns a copy of the layout with a different canonical card size.
// Badge regions are not rescaled; custom templates must match the new size.
func (l Layout) WithCardSize(width, height int) Layout {
	l.CardWidth = width
	l.CardHeight = height
	return l
}
