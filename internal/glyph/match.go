package glyph

import (
	"fmt"
	"image"
	"math"

	"card-scanner/internal/screen"

	"gocv.io/x/gocv"
)

// Score is the outcome of matching a mask against a template set.
type Score struct {
	Label int
	Value float64 // normalized squared difference, 0 = identical
	OK    bool    // Value is below the acceptance threshold
}

// Best scores a badge mask against every template in the set and returns the
// template with the lowest normalized squared-difference score over all
// alignments. The match is accepted only if that score is below threshold.
// Templates larger than the mask are skipped.
func (s *Set) Best(mask *image.Gray, threshold float64) (Score, error) {
	best := Score{Label: -1, Value: math.Inf(1)}
	if s.Len() == 0 {
		return best, nil
	}

	src, err := screen.GrayToMat(mask)
	if err != nil {
		return best, err
	}
	defer src.Close()

	for _, t := range s.templates {
		value, err := matchTemplate(src, t)
		if err != nil {
			return best, fmt.Errorf("template %d: %w", t.Label, err)
		}
		if value < best.Value {
			best.Label = t.Label
			best.Value = value
		}
	}

	best.OK = best.Value < threshold
	return best, nil
}

// matchTemplate returns the minimum TM_SQDIFF_NORMED score of t over src.
func matchTemplate(src gocv.Mat, t Template) (float64, error) {
	tb := t.Image.Bounds()
	if tb.Dx() > src.Cols() || tb.Dy() > src.Rows() {
		return math.Inf(1), nil
	}

	tmpl, err := screen.GrayToMat(t.Image)
	if err != nil {
		return 0, err
	}
	defer tmpl.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(src, tmpl, &result, gocv.TmSqdiffNormed, mask)
	minVal, _, _, _ := gocv.MinMaxLoc(result)

	// An all-Off window has no energy to normalize by; treat it as a miss.
	v := float64(minVal)
	if math.IsNaN(v) {
		return 1, nil
	}
	return v, nil
}
