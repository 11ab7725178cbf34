package swappool

// Patcher constructs a new pool set state by applying a diff to a previous
// state. PoolView is a pure value type, so entries copy directly; prevState
// is never mutated.
func Patcher(prevState []PoolView, diff PoolSetDiff) ([]PoolView, error) {
	newStateMap := make(map[string]PoolView, len(prevState))
	for _, pool := range prevState {
		newStateMap[pool.Key()] = pool
	}

	for _, keyToDelete := range diff.Deletions {
		delete(newStateMap, keyToDelete)
	}

	for _, updatedPool := range diff.Updates {
		newStateMap[updatedPool.Key()] = updatedPool
	}

	for _, addedPool := range diff.Additions {
		newStateMap[addedPool.Key()] = addedPool
	}

	finalState := make([]PoolView, 0, len(newStateMap))
	for _, pool := range newStateMap {
		finalState = append(finalState, pool)
	}

	return finalState, nil
}
