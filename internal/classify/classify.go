// Package classify reads level, points and identity off a normalized card.
package classify

import (
	"fmt"
	"image"

	"card-scanner/internal/glyph"
	"card-scanner/internal/inventory"
	"card-scanner/internal/phash"
	"card-scanner/internal/screen"
	"card-scanner/pkg/geometry"
)

// Options holds the classification thresholds.
type Options struct {
	// Template scores at or above this are rejected.
	GlyphThreshold float64

	// A points digit worth this much or more (digit * 10^position) is
	// assumed to be a false match on an empty position and ignored.
	MaxDigitContribution int

	// Identity matches at or above this aggregate distance are rejected.
	IdentityThreshold uint64
	Metric            phash.Metric
}

// DefaultOptions returns the thresholds tuned for the reference device.
func DefaultOptions() Options {
	return Options{
		GlyphThreshold:       0.6,
		MaxDigitContribution: 2000,
		IdentityThreshold:    phash.DefaultThreshold,
		Metric:               phash.DefaultMetric(),
	}
}

// WithIdentityThreshold returns a copy of the options with a custom identity threshold.
func (o Options) WithIdentityThreshold(t uint64) Options {
	o.IdentityThreshold = t
	return o
}

// WithDistanceFloor returns a copy of the options with a custom per-channel floor.
func (o Options) WithDistanceFloor(floor uint64) Options {
	o.Metric.Floor = floor
	return o
}

// DigitReader reads the whole points number from a badge image. It is a
// fallback consulted only when template matching finds no digit.
type DigitReader interface {
	ReadDigits(badge image.Image) (int, bool)
}

// Classifier classifies normalized cards. It is safe for concurrent use.
type Classifier struct {
	layout   screen.Layout
	sets     glyph.Sets
	index    *Index
	opts     Options
	fallback DigitReader
}

// New creates a classifier. index may be nil, in which case no identity is
// ever resolved (bootstrap mode).
func New(layout screen.Layout, sets glyph.Sets, index *Index, opts Options) *Classifier {
	return &Classifier{layout: layout, sets: sets, index: index, opts: opts}
}

// WithFallback returns a copy of the classifier that consults r for points
// badges template matching could not read.
func (c *Classifier) WithFallback(r DigitReader) *Classifier {
	cp := *c
	cp.fallback = r
	return &cp
}

// Options returns the classifier's thresholds.
func (c *Classifier) Options() Options {
	return c.opts
}

// Classify reads every attribute of one normalized card.
func (c *Classifier) Classify(card *image.NRGBA) (inventory.Card, error) {
	out := inventory.Card{}

	level, err := c.Level(card)
	if err != nil {
		return out, err
	}
	points, err := c.Points(card)
	if err != nil {
		return out, err
	}
	out.Level = level
	out.Points = points

	hash := phash.Compute(card)
	out.Hash = hash.String()

	if c.index != nil {
		id, kind, dist, ok := c.index.Match(hash, c.opts.IdentityThreshold)
		out.Distance = dist
		if ok {
			out.ID = id
			out.Kind = kind
		}
	}

	if !out.Resolved() && (level != nil || points != nil) {
		out.Image = card
	}
	return out, nil
}

// badgeMask crops a badge region, masks its digit color and erodes away
// single-pixel noise.
func badgeMask(card image.Image, region geometry.Rect, color screen.HSVRange) (*image.Gray, error) {
	b := card.Bounds()
	if !geometry.NewRect(0, 0, b.Dx(), b.Dy()).Contains(region) {
		return nil, fmt.Errorf("badge region %s outside card", region)
	}
	mask := screen.BuildMask(screen.SubImage(card, region), color)
	return screen.Erode(mask, glyph.ErodeRadius)
}
