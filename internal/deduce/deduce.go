// Package deduce fills in unresolved card identities from catalog order.
//
// Cards are seen in screen order. Whenever two confidently identified cards
// (anchors) are exactly as far apart on screen as they are in the catalog,
// every unresolved card between them must be the catalog entry at the same
// offset.
package deduce

import (
	"card-scanner/internal/inventory"
)

// State is the deducer's coarse state.
type State int

const (
	// SeekingType: no catalog order is loaded for the current kind.
	SeekingType State = iota
	// Tracking: an order is loaded; an anchor may be set.
	Tracking
)

func (s State) String() string {
	switch s {
	case SeekingType:
		return "SeekingType"
	case Tracking:
		return "Tracking"
	default:
		return "Unknown"
	}
}

// anchor is the last card whose identity was resolved.
type anchor struct {
	index    int // position in the card sequence
	position int // position in the catalog order
}

// Deducer is the state machine. Feed it cards with Step, then call Finish.
// It never modifies the cards it was given; Cards returns the filled copies.
type Deducer struct {
	orders map[inventory.Kind]*inventory.Order

	kind    inventory.Kind
	order   *inventory.Order
	anchor  *anchor
	pending []int

	cards []inventory.Card
}

// New creates a deducer over the given catalog orders, keyed by kind.
func New(orders map[inventory.Kind]*inventory.Order) *Deducer {
	return &Deducer{orders: orders}
}

// State returns the current state.
func (d *Deducer) State() State {
	if d.order == nil {
		return SeekingType
	}
	return Tracking
}

// Pending returns the number of unresolved cards waiting for the next anchor.
func (d *Deducer) Pending() int {
	return len(d.pending)
}

// Step consumes the next card.
//
// A card with a non-empty kind different from the current one switches the
// catalog order (clearing it when the kind has no order) and forgets the
// anchor and pending cards. Cards with an empty kind belong to the current
// kind.
func (d *Deducer) Step(c inventory.Card) {
	idx := len(d.cards)
	d.cards = append(d.cards, c)

	if c.Kind != "" && c.Kind != d.kind {
		d.switchKind(c.Kind)
	}

	if !c.Resolved() {
		d.pending = append(d.pending, idx)
		return
	}

	if d.order == nil {
		d.reset()
		return
	}
	pos, ok := d.order.Position(c.ID)
	if !ok {
		d.reset()
		return
	}
	d.resolve(idx, pos)
}

// Finish feeds the end-of-list sentinel so that trailing unresolved cards can
// be filled against the end of the catalog.
func (d *Deducer) Finish() {
	if d.order == nil {
		return
	}
	d.resolve(len(d.cards), d.order.Sentinel())
	d.anchor = nil
}

// Cards returns the cards seen so far, with deduced identities filled in.
func (d *Deducer) Cards() []inventory.Card {
	out := make([]inventory.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// resolve handles an identified card at sequence index idx and catalog
// position pos: backfill the pending run if the offsets agree, then make it
// the new anchor.
func (d *Deducer) resolve(idx, pos int) {
	if d.anchor != nil && len(d.pending) > 0 && pos == d.anchor.position+(idx-d.anchor.index) {
		for _, p := range d.pending {
			id, ok := d.order.At(d.anchor.position + (p - d.anchor.index))
			if !ok {
				continue
			}
			d.cards[p].ID = id
			d.cards[p].Kind = d.order.Kind
			d.cards[p].Deduced = true
			d.cards[p].Image = nil
		}
	}
	d.pending = d.pending[:0]
	d.anchor = &anchor{index: idx, position: pos}
}

func (d *Deducer) switchKind(kind inventory.Kind) {
	d.kind = kind
	d.order = d.orders[kind]
	d.reset()
}

func (d *Deducer) reset() {
	d.anchor = nil
	d.pending = d.pending[:0]
}

// Deduce runs a full pass over cards and returns the filled copies.
func Deduce(cards []inventory.Card, orders map[inventory.Kind]*inventory.Order) []inventory.Card {
	d := New(orders)
	for _, c := range cards {
		d.Step(c)
	}
	d.Finish()
	return d.Cards()
}
