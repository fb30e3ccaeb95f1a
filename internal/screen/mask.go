// Package screen locates item slots on a collection screenshot: color masks,
// streak segmentation, slot rectangles and card normalization.
package screen

import (
	"image"
	"image/color"

	"card-scanner/pkg/colorutil"
)

// Mask pixel values.
const (
	Off uint8 = 0
	On  uint8 = 255
)

// BuildMask returns a single-channel mask of img with the same bounds
// (rebased to the origin): On where the pixel falls inside pred, Off elsewhere.
func BuildMask(img image.Image, pred HSVRange) *image.Gray {
	b := img.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		row := mask.Pix[y*mask.Stride:]
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			h, s, v := colorutil.RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
			if pred.Contains(h, s, v) {
				row[x] = On
			}
		}
	}
	return mask
}

// isOn reports whether mask pixel (x, y), relative to the mask origin, is set.
func isOn(mask *image.Gray, x, y int) bool {
	return mask.Pix[y*mask.Stride+x] != Off
}

// PaintBands renders row bands back into a full-width mask of the given size:
// rows inside a band are On, all others Off.
func PaintBands(bands []Band, width, height int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for _, band := range bands {
		for y := max(band.Start, 0); y < min(band.End, height); y++ {
			row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
			for x := range row {
				row[x] = On
			}
		}
	}
	return mask
}
