package cartstate

import (
	"encoding/json"
	"fmt"
)

const snapshotVersion = 1

// snapshot is the persisted form. Totals are never stored; they are rebuilt
// from items on load.
type snapshot struct {
	Version  int             `json:"version"`
	Items    []CartLine      `json:"items"`
	Wishlist []WishlistEntry `json:"wishlist"`
}

func encodeSnapshot(lines []CartLine, wishlist []WishlistEntry) ([]byte, error) {
	snap := snapshot{Version: snapshotVersion, Items: lines, Wishlist: wishlist}
	if snap.Items == nil {
		snap.Items = []CartLine{}
	}
	if snap.Wishlist == nil {
		snap.Wishlist = []WishlistEntry{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (snapshot, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > snapshotVersion {
		return snapshot{}, fmt.Errorf("snapshot version %d is newer than %d", snap.Version, snapshotVersion)
	}
	return snap, nil
}

// sanitize drops duplicates and lines that violate 1 <= quantity <= stockLimit
// after clamping, so a hand-edited or older snapshot cannot break invariants.
func (s snapshot) sanitize() ([]CartLine, []WishlistEntry) {
	var lines []CartLine
	seen := make(map[string]bool, len(s.Items))
	for _, l := range s.Items {
		if l.ProductID == "" || seen[l.ProductID] {
			continue
		}
		l.Quantity = min(l.Quantity, l.StockLimit)
		if l.Quantity < 1 {
			continue
		}
		seen[l.ProductID] = true
		lines = append(lines, l)
	}

	var wishlist []WishlistEntry
	seen = make(map[string]bool, len(s.Wishlist))
	for _, w := range s.Wishlist {
		if w.ProductID == "" || seen[w.ProductID] {
			continue
		}
		seen[w.ProductID] = true
		wishlist = append(wishlist, w)
	}
	return lines, wishlist
}
