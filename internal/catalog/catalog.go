// Package catalog loads the item catalog and the identity hash catalog the
// recognition engine runs against.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"card-scanner/internal/inventory"
)

// Item is one known item with its declared position in its kind's list.
type Item struct {
	ID       inventory.ItemID `json:"id"`
	Kind     inventory.Kind   `json:"kind"`
	Position int              `json:"position"`
	Name     string           `json:"name,omitempty"`
}

// Orders groups items by kind and sorts each kind by declared position.
// Items with equal positions keep their input order.
func Orders(items []Item) map[inventory.Kind]*inventory.Order {
	byKind := make(map[inventory.Kind][]Item)
	for _, it := range items {
		byKind[it.Kind] = append(byKind[it.Kind], it)
	}

	orders := make(map[inventory.Kind]*inventory.Order, len(byKind))
	for kind, list := range byKind {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Position < list[j].Position
		})
		ids := make([]inventory.ItemID, len(list))
		for i, it := range list {
			ids[i] = it.ID
		}
		orders[kind] = inventory.NewOrder(kind, ids)
	}
	return orders
}

// itemsFile is the on-disk item catalog.
type itemsFile struct {
	Items []Item `json:"items"`
}

// LoadItems reads an item catalog JSON file.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item catalog: %w", err)
	}
	var f itemsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog: %w", err)
	}
	for i, it := range f.Items {
		if it.ID == "" || it.Kind == "" {
			return nil, fmt.Errorf("item catalog entry %d: missing id or kind", i)
		}
	}
	return f.Items, nil
}
