package screen

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Band segmentation constants.
const (
	// A streak must cover this fraction of the slot width to count.
	streakFraction = 0.9
	// Bands shorter than this many rows are noise.
	minBandLength = 4
	// Bands separated by at most this many rows are merged.
	maxBandGap = 3
)

// Band is a half-open interval [Start, End) of rows (or columns) that lie
// inside a line of item slots.
type Band struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of rows covered.
func (b Band) Len() int {
	return b.End - b.Start
}

// RunLengths returns the length of every maximal horizontal run of On pixels
// that is at least minWidth long, row by row.
func RunLengths(mask *image.Gray, minWidth int) []float64 {
	w, h := mask.Bounds().Dx(), mask.Bounds().Dy()
	var runs []float64
	for y := 0; y < h; y++ {
		run := 0
		for x := 0; x <= w; x++ {
			if x < w && isOn(mask, x, y) {
				run++
				continue
			}
			if run > 0 && run >= minWidth {
				runs = append(runs, float64(run))
			}
			run = 0
		}
	}
	return runs
}

// EstimateWidth returns the most frequent horizontal run length of at least
// minWidth pixels, which is the width of a slot card at the screenshot's
// resolution. Ties resolve to the shorter length. Returns 0 when no run
// qualifies.
func EstimateWidth(mask *image.Gray, minWidth int) int {
	runs := RunLengths(mask, minWidth)
	if len(runs) == 0 {
		return 0
	}
	sort.Float64s(runs)

	// One histogram bin per integer length, so the first maximum is the
	// shortest of the most frequent lengths.
	lo, hi := runs[0], runs[len(runs)-1]
	dividers := make([]float64, 0, int(hi-lo)+2)
	for v := lo; v <= hi+1; v++ {
		dividers = append(dividers, v-0.5)
	}
	counts := stat.Histogram(nil, dividers, runs, nil)
	return int(lo) + floats.MaxIdx(counts)
}

// chain is a sequence of On pixels on one scan line whose separating Off gaps
// are all shorter than the slot width.
type chain struct {
	fill int // On pixels
	span int // first to last On pixel, inclusive
}

// rowChains splits scan line y into chains.
func rowChains(mask *image.Gray, y, width int) []chain {
	w := mask.Bounds().Dx()
	var chains []chain
	first, last, fill := -1, -1, 0
	for x := 0; x < w; x++ {
		if !isOn(mask, x, y) {
			continue
		}
		if first >= 0 && x-last-1 >= width {
			chains = append(chains, chain{fill: fill, span: last - first + 1})
			first = -1
		}
		if first < 0 {
			first, fill = x, 0
		}
		last = x
		fill++
	}
	if first >= 0 {
		chains = append(chains, chain{fill: fill, span: last - first + 1})
	}
	return chains
}

// rowMarks classifies each row as inside or outside an item band.
//
// A row opens a band when at least one chain is made of enough On pixels to
// be a solid slot edge; the number of such chains is remembered. Following
// rows stay in the band while at least that many chains still stretch across
// a slot width, which lets badges and artwork punch holes into the card
// background without splitting the band.
func rowMarks(mask *image.Gray, width int) []bool {
	h := mask.Bounds().Dy()
	marks := make([]bool, h)
	if width <= 0 {
		return marks
	}
	need := streakFraction * float64(width)

	opened := 0
	for y := 0; y < h; y++ {
		chains := rowChains(mask, y, width)

		solid, spanning := 0, 0
		for _, c := range chains {
			if float64(c.fill) >= need {
				solid++
			}
			if float64(c.span) >= need {
				spanning++
			}
		}

		switch {
		case opened > 0 && spanning >= opened:
			marks[y] = true
		case solid > 0:
			opened = solid
			marks[y] = true
		default:
			opened = 0
		}
	}
	return marks
}

// groupBands turns per-row marks into bands, drops short ones and merges
// neighbours separated by thin gaps.
func groupBands(marks []bool) []Band {
	var raw []Band
	start := -1
	for y := 0; y <= len(marks); y++ {
		if y < len(marks) && marks[y] {
			if start < 0 {
				start = y
			}
			continue
		}
		if start >= 0 {
			if y-start >= minBandLength {
				raw = append(raw, Band{Start: start, End: y})
			}
			start = -1
		}
	}

	var merged []Band
	for _, b := range raw {
		if n := len(merged); n > 0 && b.Start-merged[n-1].End <= maxBandGap {
			merged[n-1].End = b.End
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// FindBands returns the row bands of mask for a known slot width.
func FindBands(mask *image.Gray, width int) []Band {
	return groupBands(rowMarks(mask, width))
}

// Segment estimates the slot width from mask rows and returns the row bands
// together with that width.
func Segment(mask *image.Gray, minWidth int) ([]Band, int) {
	width := EstimateWidth(mask, minWidth)
	if width == 0 {
		return nil, 0
	}
	return FindBands(mask, width), width
}

// SegmentColumns runs Segment over the columns of mask. The row-pass slot
// width is the floor for column runs, since cards are taller than wide.
func SegmentColumns(mask *image.Gray, rowWidth int) ([]Band, int) {
	return Segment(Transpose(mask), rowWidth)
}

// Transpose returns the mask with rows and columns swapped.
func Transpose(mask *image.Gray) *image.Gray {
	t := imaging.Transpose(mask)
	b := t.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(x, y, color.Gray{Y: t.NRGBAAt(b.Min.X+x, b.Min.Y+y).R})
		}
	}
	return out
}
