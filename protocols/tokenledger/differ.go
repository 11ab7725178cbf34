package tokenledger

type TokenLedgerDiff struct {
	Additions []Token  `json:"additions,omitempty"`
	Updates   []Token  `json:"updates,omitempty"`
	Deletions []string `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d TokenLedgerDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

// Differ calculates the difference between two states of the token ledger.
// The logic uses maps for O(1) average time complexity lookups, keyed by the
// token's name, which is its unique identity.
func Differ(old, new []Token) TokenLedgerDiff {
	oldTokensMap := make(map[string]Token, len(old))
	for _, token := range old {
		oldTokensMap[token.Name] = token
	}

	newTokensMap := make(map[string]Token, len(new))
	for _, token := range new {
		newTokensMap[token.Name] = token
	}

	var additions []Token
	var updates []Token
	var deletions []string

	// Identify Additions and Updates by walking the new set.
	for name, newToken := range newTokensMap {
		oldToken, exists := oldTokensMap[name]

		if !exists {
			additions = append(additions, newToken)
		} else if oldToken.Balance != newToken.Balance {
			// The balance is the only mutable field.
			updates = append(updates, newToken)
		}
	}

	// Identify Deletions by walking the old set.
	for name := range oldTokensMap {
		if _, exists := newTokensMap[name]; !exists {
			deletions = append(deletions, name)
		}
	}

	return TokenLedgerDiff{
		Additions: additions,
		Updates:   updates,
		Deletions: deletions,
	}
}
