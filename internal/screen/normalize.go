package screen

import (
	"image"

	"card-scanner/pkg/geometry"

	"github.com/disintegration/imaging"
)

// Normalize crops a slot out of a screenshot and resamples it to the
// canonical card size with a Gaussian filter. rect is relative to the
// screenshot's bounds origin. A crop already at the canonical size is copied
// without filtering.
func Normalize(img image.Image, rect geometry.Rect, layout Layout) *image.NRGBA {
	origin := img.Bounds().Min
	crop := imaging.Crop(img, rect.Translate(origin.X, origin.Y).ImageRect())

	b := crop.Bounds()
	if b.Dx() == layout.CardWidth && b.Dy() == layout.CardHeight {
		return crop
	}
	return imaging.Resize(crop, layout.CardWidth, layout.CardHeight, imaging.Gaussian)
}

// SubImage crops a badge region out of a normalized card.
func SubImage(card image.Image, region geometry.Rect) *image.NRGBA {
	origin := card.Bounds().Min
	return imaging.Crop(card, region.Translate(origin.X, origin.Y).ImageRect())
}
