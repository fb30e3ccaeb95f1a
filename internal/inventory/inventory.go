// Package inventory defines the records produced by screenshot recognition.
package inventory

import (
	"fmt"
	"image"

	"card-scanner/pkg/geometry"
)

// ItemID identifies a catalog item. The empty ID means "unresolved".
type ItemID string

// Kind is an item category with its own catalog ordering (for example
// characters and support items). The empty Kind means "not observed".
type Kind string

// HashEntry pairs an item with one perceptual hash of its card art.
type HashEntry struct {
	ID   ItemID `json:"id"`
	Hash string `json:"hash"`
}

// Card is everything recognized about one slot. Level and Points are nil
// when unresolved. A card with an ID always has a Hash. Image is kept only
// when the ID is unresolved but the slot looks like a real item, so it can
// be labeled later.
type Card struct {
	ID     ItemID `json:"id,omitempty"`
	Kind   Kind   `json:"kind,omitempty"`
	Level  *int   `json:"level,omitempty"`
	Points *int   `json:"points,omitempty"`
	Hash   string `json:"hash"`

	// Distance of the best catalog match, for diagnostics.
	Distance uint64 `json:"distance,omitempty"`
	// Deduced is true when ID was filled from catalog order rather than
	// matched from the image.
	Deduced bool `json:"deduced,omitempty"`

	Screenshot int           `json:"screenshot"`
	Slot       geometry.Rect `json:"slot"`
	Image      image.Image   `json:"-"`
}

// Resolved reports whether the card's identity is known.
func (c Card) Resolved() bool {
	return c.ID != ""
}

// String returns a debug string representation.
func (c Card) String() string {
	level, points := "?", "?"
	if c.Level != nil {
		level = fmt.Sprint(*c.Level)
	}
	if c.Points != nil {
		points = fmt.Sprint(*c.Points)
	}
	id := string(c.ID)
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("Card<%s kind=%s lv=%s pt=%s at %s>", id, c.Kind, level, points, c.Slot)
}

// Record is one owned item in the reconstructed inventory.
type Record struct {
	ID     ItemID `json:"id"`
	Kind   Kind   `json:"kind"`
	Level  int    `json:"level"`
	Points int    `json:"points"`
}

// NewRecord validates that a card has identity, level and points all
// resolved and turns it into a Record.
func NewRecord(c Card) (Record, bool) {
	if c.ID == "" || c.Level == nil || c.Points == nil {
		return Record{}, false
	}
	return Record{ID: c.ID, Kind: c.Kind, Level: *c.Level, Points: *c.Points}, true
}

// Records builds the inventory from cards, grouped by kind, skipping any card
// that is not fully resolved. Within a kind, records keep card order.
func Records(cards []Card) map[Kind][]Record {
	out := make(map[Kind][]Record)
	for _, c := range cards {
		if r, ok := NewRecord(c); ok {
			out[r.Kind] = append(out[r.Kind], r)
		}
	}
	return out
}

// Observations returns the (identity, hash) pairs of every resolved card, in
// card order, without repeating an exact pair.
func Observations(cards []Card) []HashEntry {
	seen := make(map[HashEntry]bool)
	var out []HashEntry
	for _, c := range cards {
		if !c.Resolved() || c.Hash == "" {
			continue
		}
		e := HashEntry{ID: c.ID, Hash: c.Hash}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// Order is the declared catalog sequence of one kind.
type Order struct {
	Kind  Kind
	IDs   []ItemID
	index map[ItemID]int
}

// NewOrder builds an Order. Duplicate IDs keep their first position.
func NewOrder(kind Kind, ids []ItemID) *Order {
	o := &Order{Kind: kind, IDs: append([]ItemID(nil), ids...), index: make(map[ItemID]int, len(ids))}
	for i, id := range o.IDs {
		if _, dup := o.index[id]; !dup {
			o.index[id] = i
		}
	}
	return o
}

// Len returns the number of items in the order.
func (o *Order) Len() int {
	return len(o.IDs)
}

// Position returns the index of id, or false if it is not in this order.
func (o *Order) Position(id ItemID) (int, bool) {
	p, ok := o.index[id]
	return p, ok
}

// Sentinel is the position one past the last item, standing in for the end
// of the list.
func (o *Order) Sentinel() int {
	return len(o.IDs)
}

// At returns the ID at position p, or false when p is outside the order.
func (o *Order) At(p int) (ItemID, bool) {
	if p < 0 || p >= len(o.IDs) {
		return "", false
	}
	return o.IDs[p], true
}
