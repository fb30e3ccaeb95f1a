package glyph

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"

	"card-scanner/internal/screen"
)

// Template file prefixes inside a template directory.
const (
	LevelPrefix = "level"
	DigitPrefix = "digit"
)

// LoadSet reads one PNG per label from fsys, named "<prefix>_<label>.png".
// Images are converted to masks: pixels at or above mid-grey are On. Files are used
// as-is, so they must already be eroded like the built-in set.
func LoadSet(fsys fs.FS, prefix string, labels []int) (*Set, error) {
	templates := make([]Template, 0, len(labels))
	for _, label := range labels {
		name := labelName(prefix, label) + ".png"
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open template %s: %w", name, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode template %s: %w", name, err)
		}
		templates = append(templates, Template{Label: label, Image: toMask(img)})
	}
	return NewSet(templates), nil
}

// Sets bundles the level and digit templates an engine works with.
type Sets struct {
	Levels *Set
	Digits *Set

	// Builtin is true when the sets were rendered rather than loaded.
	Builtin bool
}

// String returns a debug summary.
func (s Sets) String() string {
	source := "directory"
	if s.Builtin {
		source = "built-in"
	}
	return fmt.Sprintf("%d level and %d digit templates (%s)", s.Levels.Len(), s.Digits.Len(), source)
}

// LoadSets loads level and digit templates from fsys. A nil fsys, or one
// without level templates, falls back to the built-in rendered sets.
func LoadSets(fsys fs.FS) (Sets, error) {
	if fsys != nil {
		levels, err := LoadSet(fsys, LevelPrefix, LevelLabels)
		switch {
		case err == nil:
			digits, err := LoadSet(fsys, DigitPrefix, DigitLabels)
			if err != nil {
				return Sets{}, err
			}
			return Sets{Levels: levels, Digits: digits}, nil
		case !errors.Is(err, fs.ErrNotExist):
			return Sets{}, err
		}
	}
	return Builtin()
}

// Builtin renders the built-in level and digit sets.
func Builtin() (Sets, error) {
	levels, err := BuiltinLevels()
	if err != nil {
		return Sets{}, err
	}
	digits, err := BuiltinDigits()
	if err != nil {
		return Sets{}, err
	}
	return Sets{Levels: levels, Digits: digits, Builtin: true}, nil
}

// toMask thresholds an arbitrary image into an On/Off mask at the origin.
func toMask(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y >= 128 {
				out.Pix[y*out.Stride+x] = screen.On
			}
		}
	}
	return out
}
