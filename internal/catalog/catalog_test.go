package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"card-scanner/internal/inventory"
)

func TestOrders(t *testing.T) {
	items := []Item{
		{ID: "c", Kind: "weapon", Position: 3},
		{ID: "x", Kind: "armor", Position: 1},
		{ID: "a", Kind: "weapon", Position: 1},
		{ID: "b2", Kind: "weapon", Position: 2},
		{ID: "b1", Kind: "weapon", Position: 2},
	}
	orders := Orders(items)
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	want := []inventory.ItemID{"a", "b2", "b1", "c"}
	if got := orders["weapon"].IDs; !reflect.DeepEqual(got, want) {
		t.Errorf("weapon order = %v, want %v", got, want)
	}
	if orders["armor"].Kind != "armor" || orders["armor"].Len() != 1 {
		t.Errorf("armor order = %+v", orders["armor"])
	}
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "items.json")
	data := `{"items": [{"id": "a", "kind": "weapon", "position": 1, "name": "Axe"}]}`
	if err := os.WriteFile(good, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	items, err := LoadItems(good)
	if err != nil {
		t.Fatalf("LoadItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Axe" || items[0].Position != 1 {
		t.Errorf("items = %+v", items)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"items": [{"id": "a"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadItems(bad); err == nil {
		t.Error("expected error for item without kind")
	}
	if _, err := LoadItems(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHashStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "hashes.json")

	s, err := LoadHashStore(path)
	if err != nil {
		t.Fatalf("LoadHashStore on missing file: %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatalf("new store not empty")
	}

	added := s.Merge([]inventory.HashEntry{
		{ID: "a", Hash: "h1"},
		{ID: "a", Hash: "h1"},
		{ID: "b", Hash: "h2"},
		{ID: "", Hash: "h3"},
		{ID: "c", Hash: ""},
	})
	if added != 2 {
		t.Errorf("Merge added %d, want 2", added)
	}
	if added := s.Merge([]inventory.HashEntry{{ID: "a", Hash: "h1"}, {ID: "a", Hash: "h4"}}); added != 1 {
		t.Errorf("second Merge added %d, want 1", added)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := LoadHashStore(path)
	if err != nil {
		t.Fatalf("LoadHashStore: %v", err)
	}
	want := []inventory.HashEntry{{ID: "a", Hash: "h1"}, {ID: "b", Hash: "h2"}, {ID: "a", Hash: "h4"}}
	if got := back.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded = %v, want %v", got, want)
	}
}

func TestHashStoreReplace(t *testing.T) {
	s := NewHashStore()
	s.Merge([]inventory.HashEntry{{ID: "a", Hash: "old"}, {ID: "x", Hash: "keep"}, {ID: "b", Hash: "old"}})
	s.Replace([]inventory.ItemID{"a", "b"}, []inventory.HashEntry{{ID: "a", Hash: "new"}, {ID: "b", Hash: "new"}})

	want := []inventory.HashEntry{{ID: "x", Hash: "keep"}, {ID: "a", Hash: "new"}, {ID: "b", Hash: "new"}}
	if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("after Replace = %v, want %v", got, want)
	}
}

func TestHashStoreErrors(t *testing.T) {
	if err := NewHashStore().Save(); err == nil {
		t.Error("Save without a path should fail")
	}

	path := filepath.Join(t.TempDir(), "hashes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadHashStore(path); err == nil {
		t.Error("expected parse error")
	}
}
