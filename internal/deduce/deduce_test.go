package deduce

import (
	"image"
	"testing"

	"card-scanner/internal/inventory"
)

const (
	weapons inventory.Kind = "weapon"
	armor   inventory.Kind = "armor"
)

func orders() map[inventory.Kind]*inventory.Order {
	return map[inventory.Kind]*inventory.Order{
		weapons: inventory.NewOrder(weapons, []inventory.ItemID{"A", "B", "C", "D", "E"}),
		armor:   inventory.NewOrder(armor, []inventory.ItemID{"X", "W", "Y"}),
	}
}

// seq builds cards from IDs; "?" is unresolved. Resolved cards get the
// kind of their order.
func seq(ids ...string) []inventory.Card {
	kinds := map[string]inventory.Kind{}
	for kind, o := range orders() {
		for _, id := range o.IDs {
			kinds[string(id)] = kind
		}
	}
	cards := make([]inventory.Card, len(ids))
	for i, id := range ids {
		if id == "?" {
			continue
		}
		cards[i] = inventory.Card{ID: inventory.ItemID(id), Kind: kinds[id], Hash: "h" + id}
	}
	return cards
}

func ids(cards []inventory.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = string(c.ID)
		if out[i] == "" {
			out[i] = "?"
		}
	}
	return out
}

func TestDeduce(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"between anchors and at end", []string{"A", "?", "?", "D", "?"}, []string{"A", "B", "C", "D", "E"}},
		{"offsets disagree", []string{"A", "?", "D"}, []string{"A", "?", "D"}},
		{"no leading sentinel", []string{"?", "B", "C"}, []string{"?", "B", "C"}},
		{"trailing gap too short", []string{"A", "?"}, []string{"A", "?"}},
		{"repeated anchor", []string{"B", "B", "?", "D"}, []string{"B", "B", "C", "D"}},
		{"kind switch clears pending", []string{"A", "?", "X", "?", "Y"}, []string{"A", "?", "X", "W", "Y"}},
		{"end sentinel only at sequence end", []string{"C", "?", "?", "X", "?", "?"}, []string{"C", "?", "?", "X", "W", "Y"}},
		{"unordered item resets", []string{"A", "?", "Q", "?", "C"}, []string{"A", "?", "Q", "?", "C"}},
		{"all unresolved", []string{"?", "?"}, []string{"?", "?"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Deduce(seq(tt.in...), orders()))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDeducedCardsAreMarked(t *testing.T) {
	in := seq("A", "?", "C")
	in[1].Image = image.NewNRGBA(image.Rect(0, 0, 1, 1))
	level := 3
	in[1].Level = &level

	out := Deduce(in, orders())
	c := out[1]
	if c.ID != "B" || c.Kind != weapons || !c.Deduced {
		t.Errorf("deduced card = %+v", c)
	}
	if c.Image != nil {
		t.Error("deduced card kept its image")
	}
	if c.Level == nil || *c.Level != 3 {
		t.Error("deduced card lost its level")
	}
	if out[0].Deduced || out[2].Deduced {
		t.Error("anchors marked as deduced")
	}

	if in[1].ID != "" || in[1].Image == nil {
		t.Error("input cards were modified")
	}
}

func TestUnknownKind(t *testing.T) {
	cards := []inventory.Card{
		{ID: "A", Kind: weapons},
		{},
		{ID: "M", Kind: "relic"},
		{},
		{ID: "N", Kind: "relic"},
	}
	d := New(orders())
	for _, c := range cards {
		d.Step(c)
	}
	if d.State() != SeekingType {
		t.Errorf("state = %s, want SeekingType", d.State())
	}
	d.Finish()
	for i, c := range d.Cards() {
		if c.Deduced {
			t.Errorf("card %d deduced without an order: %+v", i, c)
		}
	}
}

func TestStateMachine(t *testing.T) {
	d := New(orders())
	if d.State() != SeekingType {
		t.Fatalf("initial state = %s", d.State())
	}

	d.Step(inventory.Card{ID: "A", Kind: weapons})
	if d.State() != Tracking {
		t.Fatalf("state after anchor = %s", d.State())
	}

	d.Step(inventory.Card{})
	d.Step(inventory.Card{})
	if d.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", d.Pending())
	}

	d.Step(inventory.Card{ID: "D", Kind: weapons})
	if d.Pending() != 0 {
		t.Errorf("Pending after anchor = %d, want 0", d.Pending())
	}

	// An unresolved card with an empty kind stays in the current kind.
	d.Step(inventory.Card{})
	if d.State() != Tracking || d.Pending() != 1 {
		t.Errorf("state = %s pending = %d", d.State(), d.Pending())
	}
	d.Finish()

	got := ids(d.Cards())
	want := []string{"A", "B", "C", "D", "E"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cards = %v, want %v", got, want)
		}
	}
}
