package swappool

import "github.com/defistate/swap-engine-go/engine"

// Schema is the decode contract for the pool set view.
const Schema engine.ProtocolSchema = "defistate/swap-engine/poolSet@v1"

// KeyFor builds the directional pool key. A pool registered for (A, B) is a
// distinct entry from one registered for (B, A).
func KeyFor(tokenA, tokenB string) string {
	return tokenA + "-" + tokenB
}

// PoolView is a safe, value-typed snapshot of a pool's state. Tokens are
// referenced by name; the live Token objects stay with their owning registry.
type PoolView struct {
	TokenA   string `json:"tokenA"`
	TokenB   string `json:"tokenB"`
	ReserveA uint64 `json:"reserveA"`
	ReserveB uint64 `json:"reserveB"`
}

// Key returns the view's directional pool key.
func (v PoolView) Key() string {
	return KeyFor(v.TokenA, v.TokenB)
}

// View snapshots the pool.
func (p *Pool) View() PoolView {
	return PoolView{
		TokenA:   p.TokenA.Name,
		TokenB:   p.TokenB.Name,
		ReserveA: p.ReserveA,
		ReserveB: p.ReserveB,
	}
}
