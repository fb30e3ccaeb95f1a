package screen

import (
	"fmt"
	"image"
	"math"

	"card-scanner/pkg/geometry"
)

// LocateSlots intersects every row band with every column band and keeps the
// rectangles that are shaped like a card and hold enough background pixels of
// mask. Results follow band order (row-major), which approximates reading
// order only.
func LocateSlots(mask *image.Gray, rows, cols []Band, layout Layout) []geometry.Rect {
	ratio := layout.CardRatio()
	var slots []geometry.Rect
	for _, r := range rows {
		for _, c := range cols {
			rect := geometry.Rect{Left: c.Start, Top: r.Start, Right: c.End, Bottom: r.End}
			if rect.Area() <= layout.MinSlotArea {
				continue
			}
			if math.Abs(rect.Ratio()-ratio) >= layout.RatioTolerance {
				continue
			}
			// Empty positions of a short last row sit on both a row band
			// and a column band but show only backdrop.
			on := countOn(mask, rect)
			if on <= layout.MinSlotArea || float64(on) < layout.MinSlotFill*float64(rect.Area()) {
				continue
			}
			slots = append(slots, rect)
		}
	}
	return slots
}

// countOn counts the set mask pixels inside rect, clipped to the mask.
func countOn(mask *image.Gray, rect geometry.Rect) int {
	r := rect.ImageRect().Intersect(image.Rect(0, 0, mask.Rect.Dx(), mask.Rect.Dy()))
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if isOn(mask, x, y) {
				n++
			}
		}
	}
	return n
}

// Detection holds the intermediate results of slot location on one screenshot.
type Detection struct {
	Rows      []Band
	Cols      []Band
	SlotWidth int
	Slots     []geometry.Rect
}

// FindSlots runs mask building, streak segmentation and area location on a
// screenshot. Slot rectangles are relative to the screenshot's bounds origin.
func FindSlots(img image.Image, layout Layout) Detection {
	mask := BuildMask(img, layout.Background)

	rows, width := Segment(mask, layout.MinStreakWidth)
	if width == 0 {
		return Detection{}
	}
	cols, _ := SegmentColumns(mask, width)

	return Detection{
		Rows:      rows,
		Cols:      cols,
		SlotWidth: width,
		Slots:     LocateSlots(mask, rows, cols, layout),
	}
}

// String returns a debug summary.
func (d Detection) String() string {
	return fmt.Sprintf("Detection<width %d, %d row bands, %d column bands, %d slots>",
		d.SlotWidth, len(d.Rows), len(d.Cols), len(d.Slots))
}
