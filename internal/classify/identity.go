package classify

import (
	"fmt"

	"card-scanner/internal/inventory"
	"card-scanner/internal/phash"
)

type indexEntry struct {
	id   inventory.ItemID
	hash phash.Hash
}

// Index is a parsed, read-only hash catalog.
type Index struct {
	entries []indexEntry
	kinds   map[inventory.ItemID]inventory.Kind
	metric  phash.Metric
	skipped int
}

// NewIndex parses a hash catalog. kinds maps each item to its kind so that
// matches carry the kind; items missing from it match with an empty kind.
// Entries whose hash does not parse are skipped.
func NewIndex(entries []inventory.HashEntry, kinds map[inventory.ItemID]inventory.Kind, metric phash.Metric) *Index {
	ix := &Index{kinds: kinds, metric: metric}
	for _, e := range entries {
		h, err := phash.Parse(e.Hash)
		if err != nil {
			ix.skipped++
			continue
		}
		ix.entries = append(ix.entries, indexEntry{id: e.ID, hash: h})
	}
	return ix
}

// Len returns the number of usable entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Skipped returns how many entries had unparsable hashes.
func (ix *Index) Skipped() int {
	return ix.skipped
}

// Nearest returns the entry closest to h. The first entry wins ties.
// dist is phash.MaxDistance for an empty index.
func (ix *Index) Nearest(h phash.Hash) (id inventory.ItemID, dist uint64) {
	dist = phash.MaxDistance
	for _, e := range ix.entries {
		d := ix.metric.Distance(h, e.hash)
		if d < dist {
			id, dist = e.id, d
		}
	}
	return id, dist
}

// Match resolves h to an item when its nearest entry is closer than threshold.
func (ix *Index) Match(h phash.Hash, threshold uint64) (inventory.ItemID, inventory.Kind, uint64, bool) {
	id, dist := ix.Nearest(h)
	if id == "" || dist >= threshold {
		return "", "", dist, false
	}
	return id, ix.kinds[id], dist, true
}

// Collision is a pair of distinct same-kind items whose hashes are too close.
type Collision struct {
	A, B     inventory.ItemID
	Kind     inventory.Kind
	Distance uint64
}

// String returns a debug string representation.
func (c Collision) String() string {
	return fmt.Sprintf("Collision<%s %s ~ %s: %d>", c.Kind, c.A, c.B, c.Distance)
}

// Collisions lists every pair of distinct items of the same kind whose
// hashes are at most limit apart. Catalogs are expected to keep distinct
// items more than 1.5x the identity threshold apart.
func (ix *Index) Collisions(limit uint64) []Collision {
	var out []Collision
	for i := 0; i < len(ix.entries); i++ {
		a := ix.entries[i]
		for j := i + 1; j < len(ix.entries); j++ {
			b := ix.entries[j]
			if a.id == b.id || ix.kinds[a.id] != ix.kinds[b.id] {
				continue
			}
			if d := ix.metric.Distance(a.hash, b.hash); d <= limit {
				out = append(out, Collision{A: a.id, B: b.id, Kind: ix.kinds[a.id], Distance: d})
			}
		}
	}
	return out
}

// SeparationLimit is the minimum distance distinct catalog items must keep.
func SeparationLimit(threshold uint64) uint64 {
	return threshold + threshold/2
}
