package tokenledger

// Patcher constructs a new ledger state by applying a diff to a previous state.
// Token is a pure value type, so entries can be copied directly; prevState is
// never mutated.
func Patcher(prevState []Token, diff TokenLedgerDiff) ([]Token, error) {
	newStateMap := make(map[string]Token, len(prevState))
	for _, token := range prevState {
		newStateMap[token.Name] = token
	}

	for _, nameToDelete := range diff.Deletions {
		delete(newStateMap, nameToDelete)
	}

	for _, updatedToken := range diff.Updates {
		newStateMap[updatedToken.Name] = updatedToken
	}

	for _, addedToken := range diff.Additions {
		newStateMap[addedToken.Name] = addedToken
	}

	finalState := make([]Token, 0, len(newStateMap))
	for _, token := range newStateMap {
		finalState = append(finalState, token)
	}

	return finalState, nil
}
