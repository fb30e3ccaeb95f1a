// Package bootstrap builds the hash catalog of one item kind from an ordered
// scan of the complete in-game list.
package bootstrap

import (
	"fmt"
	"image"

	"card-scanner/internal/deduce"
	"card-scanner/internal/inventory"
	"card-scanner/internal/phash"
	"card-scanner/internal/recognize"
)

// RowSize is the number of slots in one visual row of the collection screen.
const RowSize = 4

// Options configures duplicate-row detection.
type Options struct {
	RowSize   int
	Threshold uint64
	Metric    phash.Metric
	Verbose   bool
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		RowSize:   RowSize,
		Threshold: phash.DefaultThreshold,
		Metric:    phash.DefaultMetric(),
	}
}

// Build scans screenshots that together show every item of one kind, in
// catalog order, and returns one hash entry per item. Screenshots may
// overlap by whole rows. Nothing is returned unless every item is accounted for.
func Build(engine *recognize.Engine, screens []image.Image, order *inventory.Order, opts Options) ([]inventory.HashEntry, error) {
	cards, err := engine.Scan(screens, nil)
	if err != nil {
		return nil, err
	}
	return FromCards(cards, order, opts)
}

// FromCards builds the hash catalog from already classified cards.
func FromCards(cards []inventory.Card, order *inventory.Order, opts Options) ([]inventory.HashEntry, error) {
	unique, err := dropRepeatedRows(cards, opts)
	if err != nil {
		return nil, err
	}
	if len(unique) != order.Len() {
		return nil, &WrongLengthError{Observed: len(unique), Expected: order.Len()}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	for i := range unique {
		unique[i].ID = ""
		unique[i].Kind = order.Kind
	}
	unique[0].ID = order.IDs[0]
	unique[len(unique)-1].ID = order.IDs[order.Len()-1]

	filled := deduce.Deduce(unique, map[inventory.Kind]*inventory.Order{order.Kind: order})

	entries := make([]inventory.HashEntry, 0, len(filled))
	for i, c := range filled {
		if !c.Resolved() {
			return nil, fmt.Errorf("slot %d: %w", i, ErrMissingID)
		}
		entries = append(entries, inventory.HashEntry{ID: c.ID, Hash: c.Hash})
	}
	if opts.Verbose {
		fmt.Printf("[Bootstrap] %s: %d entries\n", order.Kind, len(entries))
	}
	return entries, nil
}

// dropRepeatedRows splits cards into rows and drops any row whose every card
// matches a card of an earlier kept row. That is the overlap left when a
// screen was scrolled by whole rows.
func dropRepeatedRows(cards []inventory.Card, opts Options) ([]inventory.Card, error) {
	size := opts.RowSize
	if size <= 0 {
		size = RowSize
	}

	var kept []inventory.Card
	var seen []phash.Hash
	dropped := 0
	for start := 0; start < len(cards); start += size {
		row := cards[start:min(start+size, len(cards))]

		hashes := make([]phash.Hash, len(row))
		repeated := true
		for i, c := range row {
			h, err := phash.Parse(c.Hash)
			if err != nil {
				return nil, fmt.Errorf("slot %d: %w", start+i, err)
			}
			hashes[i] = h
			if repeated && !matchesAny(h, seen, opts) {
				repeated = false
			}
		}
		if repeated {
			dropped++
			continue
		}
		kept = append(kept, row...)
		seen = append(seen, hashes...)
	}
	if opts.Verbose && dropped > 0 {
		fmt.Printf("[Bootstrap] Dropped %d repeated rows\n", dropped)
	}
	return kept, nil
}

func matchesAny(h phash.Hash, seen []phash.Hash, opts Options) bool {
	for _, s := range seen {
		if opts.Metric.Distance(h, s) < opts.Threshold {
			return true
		}
	}
	return false
}
