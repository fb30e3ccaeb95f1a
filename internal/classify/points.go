package classify

import (
	"image"

	"card-scanner/internal/glyph"
	"card-scanner/internal/screen"
	"card-scanner/pkg/geometry"
)

// Points reads the points badge, one decimal position at a time starting
// from the ones digit. It returns nil when no position yields an accepted
// digit (and the fallback reader, if any, also fails).
func (c *Classifier) Points(card image.Image) (*int, error) {
	digits := make([]glyph.Score, c.layout.PointsDigits)
	for p := range digits {
		mask, err := badgeMask(card, c.layout.PointsRegion(p), c.layout.PointsColor)
		if err != nil {
			return nil, err
		}
		digits[p], err = c.sets.Digits.Best(mask, c.opts.GlyphThreshold)
		if err != nil {
			return nil, err
		}
	}

	if total, ok := ComposePoints(digits, c.opts.MaxDigitContribution); ok {
		return &total, nil
	}

	if c.fallback != nil {
		if n, ok := c.fallback.ReadDigits(screen.SubImage(card, c.pointsBadge())); ok {
			return &n, nil
		}
	}
	return nil, nil
}

// ComposePoints sums accepted digits, digits[p] being decimal position p.
// A digit whose contribution (digit * 10^p) reaches maxContribution is
// dropped. ok is false when no digit contributed.
func ComposePoints(digits []glyph.Score, maxContribution int) (int, bool) {
	total, found := 0, false
	weight := 1
	for _, d := range digits {
		if d.OK {
			if v := d.Label * weight; v < maxContribution {
				total += v
				found = true
			}
		}
		weight *= 10
	}
	return total, found
}

// pointsBadge spans every digit position of the points badge.
func (c *Classifier) pointsBadge() geometry.Rect {
	r := c.layout.PointsAnchor
	r.Left -= (c.layout.PointsDigits - 1) * c.layout.PointsPitch
	return r
}
