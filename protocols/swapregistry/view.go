package swapregistry

import (
	"sort"

	"github.com/defistate/swap-engine-go/protocols/swappool"
	"github.com/defistate/swap-engine-go/protocols/tokenledger"
)

// RegistryView is a complete, value-typed snapshot of the registry. Entries
// are sorted by name and pool key so the same ledger state always serializes
// to the same bytes.
type RegistryView struct {
	Tokens []tokenledger.Token `json:"tokens"`
	Pools  []swappool.PoolView `json:"pools"`
}

// View snapshots the registry.
func (r *Registry) View() *RegistryView {
	tokens := make([]tokenledger.Token, 0, len(r.tokens))
	for _, token := range r.tokens {
		tokens = append(tokens, *token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Name < tokens[j].Name
	})

	pools := make([]swappool.PoolView, 0, len(r.pools))
	for _, pool := range r.pools {
		pools = append(pools, pool.View())
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].Key() < pools[j].Key()
	})

	return &RegistryView{
		Tokens: tokens,
		Pools:  pools,
	}
}

// clone returns a deep copy of the view. Token and PoolView are value types,
// so copying the backing slices is sufficient.
func (v *RegistryView) clone() *RegistryView {
	tokensCopy := make([]tokenledger.Token, len(v.Tokens))
	copy(tokensCopy, v.Tokens)

	poolsCopy := make([]swappool.PoolView, len(v.Pools))
	copy(poolsCopy, v.Pools)

	return &RegistryView{
		Tokens: tokensCopy,
		Pools:  poolsCopy,
	}
}
