package classify

import (
	"image"
)

// Level reads the level badge. It returns nil when no template scores below
// the glyph threshold.
func (c *Classifier) Level(card image.Image) (*int, error) {
	mask, err := badgeMask(card, c.layout.LevelRegion, c.layout.LevelColor)
	if err != nil {
		return nil, err
	}
	score, err := c.sets.Levels.Best(mask, c.opts.GlyphThreshold)
	if err != nil {
		return nil, err
	}
	if !score.OK {
		return nil, nil
	}
	level := score.Label
	return &level, nil
}
