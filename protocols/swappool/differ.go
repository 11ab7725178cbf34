package swappool

type PoolSetDiff struct {
	Additions []PoolView `json:"additions,omitempty"`
	Updates   []PoolView `json:"updates,omitempty"`
	Deletions []string   `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d PoolSetDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

// Differ calculates the difference between two states of the pool set.
// Pools are keyed by their directional pool key, so an (A,B) pool and a (B,A)
// pool diff independently.
func Differ(old, new []PoolView) PoolSetDiff {
	oldPoolsMap := make(map[string]PoolView, len(old))
	for _, pool := range old {
		oldPoolsMap[pool.Key()] = pool
	}

	newPoolsMap := make(map[string]PoolView, len(new))
	for _, pool := range new {
		newPoolsMap[pool.Key()] = pool
	}

	var additions []PoolView
	var updates []PoolView
	var deletions []string

	// Identify Additions and Updates by walking the new set.
	for key, newPool := range newPoolsMap {
		oldPool, exists := oldPoolsMap[key]

		if !exists {
			additions = append(additions, newPool)
		} else if oldPool.ReserveA != newPool.ReserveA || oldPool.ReserveB != newPool.ReserveB {
			// The reserves are the only fields that change between versions.
			updates = append(updates, newPool)
		}
	}

	// Identify Deletions by walking the old set.
	for key := range oldPoolsMap {
		if _, exists := newPoolsMap[key]; !exists {
			deletions = append(deletions, key)
		}
	}

	return PoolSetDiff{
		Additions: additions,
		Updates:   updates,
		Deletions: deletions,
	}
}
