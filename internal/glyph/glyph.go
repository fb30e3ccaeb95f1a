// Package glyph holds the digit templates used to read badge numbers and
// scores badge masks against them.
package glyph

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"card-scanner/internal/screen"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Built-in template geometry.
const (
	// Glyphs are rendered from a 7x13 bitmap face and scaled up so that
	// strokes survive a radius-1 erosion.
	GlyphScale = 3
	// Off border kept around each template.
	TemplatePadding = 2
	// Erosion radius applied to badge masks before matching.
	ErodeRadius = 1
)

// Template is a labeled reference mask.
type Template struct {
	Label int
	Image *image.Gray
}

// String returns a debug string representation.
func (t Template) String() string {
	b := t.Image.Bounds()
	return fmt.Sprintf("Template<%d %dx%d>", t.Label, b.Dx(), b.Dy())
}

// Set is an ordered, read-only collection of templates. Order matters: ties
// go to the earlier template.
type Set struct {
	templates []Template
}

// NewSet builds a set from templates in match order.
func NewSet(templates []Template) *Set {
	cp := make([]Template, len(templates))
	copy(cp, templates)
	return &Set{templates: cp}
}

// Len returns the number of templates.
func (s *Set) Len() int {
	return len(s.templates)
}

// Templates returns a copy of the templates in match order.
func (s *Set) Templates() []Template {
	cp := make([]Template, len(s.templates))
	copy(cp, s.templates)
	return cp
}

// Labels returns the template labels in match order.
func (s *Set) Labels() []int {
	labels := make([]int, len(s.templates))
	for i, t := range s.templates {
		labels[i] = t.Label
	}
	return labels
}

// RenderGlyph draws a single character of the built-in face as an On/Off
// mask, scaled by GlyphScale, without padding.
func RenderGlyph(r rune) *image.Gray {
	face := basicfont.Face7x13
	small := image.NewGray(image.Rect(0, 0, face.Advance, face.Height))
	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Gray{Y: screen.On}),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(r))

	b := small.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*GlyphScale, b.Dy()*GlyphScale))
	for y := 0; y < out.Rect.Dy(); y++ {
		for x := 0; x < out.Rect.Dx(); x++ {
			if small.GrayAt(x/GlyphScale, y/GlyphScale).Y != screen.Off {
				out.Pix[y*out.Stride+x] = screen.On
			}
		}
	}
	return out
}

// renderTemplate pads a glyph and erodes it the same way badge masks are
// eroded before matching.
func renderTemplate(label int) (Template, error) {
	g := RenderGlyph(rune('0' + label))
	b := g.Bounds()
	padded := image.NewGray(image.Rect(0, 0, b.Dx()+2*TemplatePadding, b.Dy()+2*TemplatePadding))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			padded.SetGray(x+TemplatePadding, y+TemplatePadding, g.GrayAt(x, y))
		}
	}
	eroded, err := screen.Erode(padded, ErodeRadius)
	if err != nil {
		return Template{}, fmt.Errorf("template %d: %w", label, err)
	}
	return Template{Label: label, Image: eroded}, nil
}

func renderSet(labels []int) (*Set, error) {
	templates := make([]Template, 0, len(labels))
	for _, label := range labels {
		t, err := renderTemplate(label)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return NewSet(templates), nil
}

// LevelLabels are the proficiency levels shown on the level badge.
var LevelLabels = []int{1, 2, 3, 4, 5, 6, 7}

// DigitLabels are the decimal digits of the points badge.
var DigitLabels = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

// BuiltinLevels renders the built-in level templates (1-7).
func BuiltinLevels() (*Set, error) {
	return renderSet(LevelLabels)
}

// BuiltinDigits renders the built-in digit templates (0-9).
func BuiltinDigits() (*Set, error) {
	return renderSet(DigitLabels)
}

// labelName is the file stem of a template: "level_3", "digit_0".
func labelName(prefix string, label int) string {
	return prefix + "_" + strconv.Itoa(label)
}
