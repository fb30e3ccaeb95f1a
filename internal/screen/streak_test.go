package screen

import (
	"image"
	"reflect"
	"testing"
)

// maskFromRows builds a mask from strings where '#' is On.
func maskFromRows(rows ...string) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Pix[y*m.Stride+x] = On
			}
		}
	}
	return m
}

// fillRect sets a rectangle of mask pixels.
func fillRect(m *image.Gray, x0, y0, x1, y1 int, v uint8) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Pix[y*m.Stride+x] = v
		}
	}
}

func TestRunLengths(t *testing.T) {
	m := maskFromRows(
		"###..#####",
		"##########",
		"..........",
	)
	got := RunLengths(m, 3)
	want := []float64{3, 5, 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RunLengths = %v, want %v", got, want)
	}
}

func TestEstimateWidth(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		min  int
		want int
	}{
		{"mode", []string{"####.####.##", "####.####...", "########...."}, 2, 4},
		{"tie prefers shorter", []string{"###..#####.", "###..#####."}, 2, 3},
		{"below minimum", []string{"#.#.#.#"}, 2, 0},
		{"empty", []string{"......"}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateWidth(maskFromRows(tt.rows...), tt.min); got != tt.want {
				t.Errorf("EstimateWidth = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRowChainsToleratesShortGaps(t *testing.T) {
	m := maskFromRows("##.##..##......###")
	got := rowChains(m, 0, 3)
	want := []chain{{fill: 6, span: 9}, {fill: 3, span: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowChains = %+v, want %+v", got, want)
	}
}

func TestFindBandsHolesDoNotSplit(t *testing.T) {
	// Two cards of width 20 side by side, 12 rows tall, with a badge hole
	// in the middle rows that leaves only the card edges On.
	m := image.NewGray(image.Rect(0, 0, 50, 20))
	fillRect(m, 2, 4, 22, 16, On)
	fillRect(m, 26, 4, 46, 16, On)
	fillRect(m, 4, 7, 20, 12, Off)
	fillRect(m, 28, 7, 44, 12, Off)

	got := FindBands(m, 20)
	want := []Band{{Start: 4, End: 16}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindBands = %v, want %v", got, want)
	}
}

func TestFindBandsNeedsSolidOpening(t *testing.T) {
	// Only sparse edges: spanning but never solid.
	m := image.NewGray(image.Rect(0, 0, 30, 10))
	for y := 0; y < 10; y++ {
		m.Pix[y*m.Stride+2] = On
		m.Pix[y*m.Stride+21] = On
	}
	if got := FindBands(m, 20); len(got) != 0 {
		t.Errorf("FindBands = %v, want none", got)
	}
}

func TestGroupBands(t *testing.T) {
	marks := func(s string) []bool {
		out := make([]bool, len(s))
		for i, c := range s {
			out[i] = c == '#'
		}
		return out
	}
	tests := []struct {
		name  string
		marks string
		want  []Band
	}{
		{"drops short", "..###....#####..", []Band{{Start: 9, End: 14}}},
		{"merges thin gap", "####...####.....####", []Band{{Start: 0, End: 11}, {Start: 16, End: 20}}},
		{"runs to end", "....#####", []Band{{Start: 4, End: 9}}},
		{"none", "........", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := groupBands(marks(tt.marks)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("groupBands = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentIdempotent(t *testing.T) {
	// Two rows of two cards, with artwork holes in the first row.
	m := image.NewGray(image.Rect(0, 0, 120, 40))
	for _, x := range []int{5, 65} {
		fillRect(m, x, 3, x+50, 15, On)
		fillRect(m, x, 22, x+50, 37, On)
		fillRect(m, x+5, 6, x+45, 12, Off)
	}

	bands, width := Segment(m, 24)
	if width != 50 {
		t.Fatalf("width = %d, want 50", width)
	}
	want := []Band{{Start: 3, End: 15}, {Start: 22, End: 37}}
	if !reflect.DeepEqual(bands, want) {
		t.Fatalf("bands = %v, want %v", bands, want)
	}

	painted := PaintBands(bands, 120, 40)
	again, paintedWidth := Segment(painted, 24)
	if paintedWidth != 120 {
		t.Errorf("painted width = %d, want the full mask width", paintedWidth)
	}
	if !reflect.DeepEqual(bands, again) {
		t.Errorf("bands of painted mask = %v, want %v", again, bands)
	}
}

func TestTranspose(t *testing.T) {
	m := maskFromRows(
		"##.",
		"...",
	)
	tr := Transpose(m)
	if b := tr.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 2x3", b)
	}
	want := maskFromRows(
		"#.",
		"#.",
		"..",
	)
	if !reflect.DeepEqual(tr.Pix, want.Pix) {
		t.Errorf("Transpose pix = %v, want %v", tr.Pix, want.Pix)
	}
}

func TestSegmentColumns(t *testing.T) {
	// Two 10x12 cards side by side.
	m := image.NewGray(image.Rect(0, 0, 30, 20))
	fillRect(m, 2, 4, 12, 16, On)
	fillRect(m, 16, 4, 26, 16, On)

	rows, width := Segment(m, 5)
	if width != 10 {
		t.Fatalf("row width = %d, want 10", width)
	}
	if want := []Band{{Start: 4, End: 16}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}

	cols, colWidth := SegmentColumns(m, width)
	if colWidth != 12 {
		t.Errorf("column width = %d, want 12", colWidth)
	}
	if want := []Band{{Start: 2, End: 12}, {Start: 16, End: 26}}; !reflect.DeepEqual(cols, want) {
		t.Errorf("cols = %v, want %v", cols, want)
	}
}
