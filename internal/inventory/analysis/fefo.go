package analysis

import "sort"

// RankFEFO returns the dispensable items (quantity > 0) in
// First-Expiry-First-Out order: ascending by parsed expiry date, with
// unparseable or missing expiries sorting last. Ordering is stable, so
// repeated calls over unchanged stock always rank the same way.
func RankFEFO(items []Item) []Item {
	ranked := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			ranked = append(ranked, item)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, iOK := ParseExpiry(ranked[i].Expiry)
		dj, jOK := ParseExpiry(ranked[j].Expiry)
		if iOK != jOK {
			return iOK // dated stock dispenses before unknown expiry
		}
		if !iOK {
			return false
		}
		return di.Before(dj)
	})

	return ranked
}
