package bootstrap

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"card-scanner/internal/glyph"
	"card-scanner/internal/inventory"
	"card-scanner/internal/phash"
	"card-scanner/internal/recognize"
	"card-scanner/internal/screen"
	"card-scanner/internal/screen/screentest"
)

const weapons inventory.Kind = "weapon"

// itemHash is a one-channel hash; items i and j differ in 4*popcount(i^j) bits.
func itemHash(i int) string {
	b := byte(i)
	return phash.Hash{phash.Code{b, b, b, b}}.String()
}

func cardsOf(items ...int) []inventory.Card {
	cards := make([]inventory.Card, len(items))
	for i, it := range items {
		cards[i] = inventory.Card{Hash: itemHash(it)}
	}
	return cards
}

func orderOf(n int) *inventory.Order {
	ids := make([]inventory.ItemID, n)
	for i := range ids {
		ids[i] = inventory.ItemID(fmt.Sprintf("w%02d", i))
	}
	return inventory.NewOrder(weapons, ids)
}

func exactOptions() Options {
	opts := DefaultOptions()
	opts.Threshold = 2
	return opts
}

func TestFromCardsDropsRepeatedRows(t *testing.T) {
	// Two screens of two rows each, the second scrolled by one row.
	cards := cardsOf(
		0, 1, 2, 3,
		4, 5, 6, 7,
		4, 5, 6, 7,
		8, 9, 10, 11,
	)
	order := orderOf(12)

	entries, err := FromCards(cards, order, exactOptions())
	if err != nil {
		t.Fatalf("FromCards: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("got %d entries, want 12", len(entries))
	}
	for i, e := range entries {
		if e.ID != order.IDs[i] || e.Hash != itemHash(i) {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
}

func TestFromCardsKeepsPartiallyNewRows(t *testing.T) {
	// Row two shares items with row one but is not a full repeat.
	cards := cardsOf(0, 1, 2, 3, 3, 4, 5, 6)
	_, err := FromCards(cards, orderOf(7), exactOptions())

	var wl *WrongLengthError
	if !errors.As(err, &wl) {
		t.Fatalf("err = %v, want WrongLengthError", err)
	}
	if wl.Observed != 8 || wl.Expected != 7 {
		t.Errorf("WrongLengthError = %+v", wl)
	}
}

func TestFromCardsWrongLength(t *testing.T) {
	_, err := FromCards(cardsOf(0, 1, 2, 3), orderOf(5), exactOptions())
	var wl *WrongLengthError
	if !errors.As(err, &wl) {
		t.Fatalf("err = %v, want WrongLengthError", err)
	}
	if wl.Observed != 4 || wl.Expected != 5 {
		t.Errorf("WrongLengthError = %+v", wl)
	}
	if got, want := err.Error(), "wrong slot count: observed 4, expected 5"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFromCardsMissingID(t *testing.T) {
	// A catalog listing the same item twice puts the first and last anchors
	// at inconsistent offsets, so nothing between them can be deduced.
	order := inventory.NewOrder(weapons, []inventory.ItemID{"a", "b", "a"})
	_, err := FromCards(cardsOf(0, 1, 2), order, exactOptions())
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("err = %v, want ErrMissingID", err)
	}
}

func TestFromCardsIgnoresPriorIdentity(t *testing.T) {
	cards := cardsOf(0, 1, 2)
	cards[1].ID = "stale"
	cards[1].Kind = "armor"

	entries, err := FromCards(cards, orderOf(3), exactOptions())
	if err != nil {
		t.Fatalf("FromCards: %v", err)
	}
	if entries[1].ID != "w01" {
		t.Errorf("entry 1 = %s, want w01", entries[1].ID)
	}
	if cards[1].ID != "stale" {
		t.Error("input cards were modified")
	}
}

func TestFromCardsEmpty(t *testing.T) {
	entries, err := FromCards(nil, orderOf(0), exactOptions())
	if err != nil || entries != nil {
		t.Errorf("FromCards(empty) = %v, %v", entries, err)
	}
}

func TestFromCardsBadHash(t *testing.T) {
	cards := cardsOf(0, 1)
	cards[1].Hash = "not a hash!"
	if _, err := FromCards(cards, orderOf(2), exactOptions()); err == nil {
		t.Error("expected error for unparsable hash")
	}
}

func TestBuildFromScreenshots(t *testing.T) {
	layout := screen.DefaultLayout()
	var cards []*image.NRGBA
	for i := 0; i < 12; i++ {
		cards = append(cards, screentest.DrawCard(layout, screentest.Item(i, i%7+1, 11*i)))
	}
	first, _ := screentest.Screenshot(cards[0:8], 4)
	second, _ := screentest.Screenshot(cards[4:12], 4)

	sets, err := glyph.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	engine := recognize.NewEngine(sets, recognize.DefaultOptions())
	order := orderOf(12)

	entries, err := Build(engine, []image.Image{first, second}, order, exactOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("got %d entries, want 12", len(entries))
	}
	for i, e := range entries {
		if e.ID != order.IDs[i] {
			t.Errorf("entry %d = %s, want %s", i, e.ID, order.IDs[i])
		}
		if want := phash.Compute(cards[i]).String(); e.Hash != want {
			t.Errorf("entry %d hash does not match its card", i)
		}
	}
}

func TestBuildShortLastRow(t *testing.T) {
	layout := screen.DefaultLayout()
	var cards []*image.NRGBA
	for i := 0; i < 5; i++ {
		cards = append(cards, screentest.DrawCard(layout, screentest.Item(i, i%7+1, 13*i+2)))
	}
	img, _ := screentest.Screenshot(cards, 4)

	sets, err := glyph.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	engine := recognize.NewEngine(sets, recognize.DefaultOptions())
	order := orderOf(5)

	entries, err := Build(engine, []image.Image{img}, order, exactOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, e := range entries {
		if e.ID != order.IDs[i] || e.Hash != phash.Compute(cards[i]).String() {
			t.Errorf("entry %d = %s, want %s with its card hash", i, e.ID, order.IDs[i])
		}
	}
	if len(entries) != 5 {
		t.Errorf("got %d entries, want 5", len(entries))
	}
}
