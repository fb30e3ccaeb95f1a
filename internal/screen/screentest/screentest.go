// Package screentest draws synthetic collection screenshots for tests and
// demos. Cards are drawn at the canonical size of the default layout, so a
// located slot normalizes to the exact pixels that were drawn.
package screentest

import (
	"image"
	"image/color"
	"image/draw"

	"card-scanner/internal/glyph"
	"card-scanner/internal/screen"
	"card-scanner/pkg/geometry"
)

// Colors used by the synthetic screen. Cream is inside the default slot
// background range; Yellow and White are the default level and points colors.
var (
	Backdrop = color.NRGBA{R: 40, G: 40, B: 48, A: 255}
	Cream    = color.NRGBA{R: 230, G: 215, B: 170, A: 255}
	Navy     = color.NRGBA{R: 20, G: 30, B: 90, A: 255}
	Yellow   = color.NRGBA{R: 255, G: 220, B: 0, A: 255}
	White    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Screenshot spacing.
const (
	Margin = 10
	Gutter = 8
)

// artRegion is the card area painted with item art, to the right of the
// level badge.
var artRegion = geometry.Rect{Left: 44, Top: 8, Right: 156, Bottom: 52}

var palette = []color.NRGBA{
	{R: 200, G: 30, B: 30, A: 255},
	{R: 30, G: 160, B: 40, A: 255},
	{R: 40, G: 60, B: 210, A: 255},
	{R: 150, G: 40, B: 170, A: 255},
	{R: 20, G: 150, B: 160, A: 255},
	{R: 10, G: 10, B: 10, A: 255},
	{R: 240, G: 120, B: 160, A: 255},
	{R: 90, G: 200, B: 220, A: 255},
}

// Card describes one synthetic item card.
type Card struct {
	// Item art: a left and right color block.
	Art [2]color.NRGBA
	// 0 draws an empty level badge.
	Level int
	// Negative draws an empty points badge.
	Points int
	// Blank draws only the card background.
	Blank bool
}

// Item returns a card with art unique to item number i (i < 56).
func Item(i, level, points int) Card {
	n := len(palette)
	return Card{
		Art:    [2]color.NRGBA{palette[i%n], palette[(i/n+i+1)%n]},
		Level:  level,
		Points: points,
	}
}

// DrawCard renders a canonical card for layout.
func DrawCard(layout screen.Layout, c Card) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, layout.CardWidth, layout.CardHeight))
	fill(img, geometry.NewRect(0, 0, layout.CardWidth, layout.CardHeight), Cream)
	if c.Blank {
		return img
	}

	split := (artRegion.Left + artRegion.Right) / 2
	fill(img, geometry.Rect{Left: artRegion.Left, Top: artRegion.Top, Right: split, Bottom: artRegion.Bottom}, c.Art[0])
	fill(img, geometry.Rect{Left: split, Top: artRegion.Top, Right: artRegion.Right, Bottom: artRegion.Bottom}, c.Art[1])

	lr := layout.LevelRegion
	fill(img, lr, Navy)
	if c.Level > 0 {
		drawGlyph(img, rune('0'+c.Level%10), image.Pt(lr.Left+4, lr.Top+4), Yellow)
	}

	badge := layout.PointsAnchor
	badge.Left -= (layout.PointsDigits-1)*layout.PointsPitch + 2
	badge.Top -= 2
	badge.Right += 2
	badge.Bottom++
	fill(img, badge, Navy)
	if c.Points >= 0 {
		n := c.Points
		for p := 0; p < layout.PointsDigits; p++ {
			r := layout.PointsRegion(p)
			drawGlyph(img, rune('0'+n%10), image.Pt(r.Left+2, r.Top+4), White)
			n /= 10
			if n == 0 {
				break
			}
		}
	}
	return img
}

// Screenshot lays cards out in rows of cols on a dark backdrop and returns
// the image with the slot rectangles in row-major order.
func Screenshot(cards []*image.NRGBA, cols int) (*image.NRGBA, []geometry.Rect) {
	if len(cards) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 2*Margin, 2*Margin)), nil
	}
	cw, ch := cards[0].Bounds().Dx(), cards[0].Bounds().Dy()
	rows := (len(cards) + cols - 1) / cols

	w := 2*Margin + cols*cw + (cols-1)*Gutter
	h := 2*Margin + rows*ch + (rows-1)*Gutter
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, geometry.NewRect(0, 0, w, h), Backdrop)

	slots := make([]geometry.Rect, len(cards))
	for i, card := range cards {
		x := Margin + (i%cols)*(cw+Gutter)
		y := Margin + (i/cols)*(ch+Gutter)
		slots[i] = geometry.NewRect(x, y, cw, ch)
		draw.Draw(img, slots[i].ImageRect(), card, card.Bounds().Min, draw.Src)
	}
	return img, slots
}

func fill(img *image.NRGBA, r geometry.Rect, c color.NRGBA) {
	draw.Draw(img, r.ImageRect(), image.NewUniform(c), image.Point{}, draw.Src)
}

// drawGlyph paints the On pixels of a built-in glyph at origin.
func drawGlyph(img *image.NRGBA, r rune, origin image.Point, c color.NRGBA) {
	g := glyph.RenderGlyph(r)
	b := g.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if g.GrayAt(x, y).Y != screen.Off {
				img.SetNRGBA(origin.X+x, origin.Y+y, c)
			}
		}
	}
}
