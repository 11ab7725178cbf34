package stateops

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/defistate/swap-engine-go/protocols/swappool"
	"github.com/defistate/swap-engine-go/protocols/swapregistry"
	"github.com/defistate/swap-engine-go/protocols/tokenledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newScenarioRegistry(t *testing.T) *swapregistry.Registry {
	t.Helper()
	r, err := swapregistry.New(&swapregistry.Config{Logger: testLogger()})
	require.NoError(t, err)
	tokenA := r.AddToken("A")
	tokenB := r.AddToken("B")
	tokenA.Balance = 200
	tokenB.Balance = 400
	require.NoError(t, r.AddPool("A", "B", 100, 200))
	return r
}

func TestBuildState(t *testing.T) {
	r := newScenarioRegistry(t)

	state, err := BuildState(1, 0, r.View())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), state.EngineID)
	assert.Equal(t, uint64(0), state.Summary.Version)
	assert.False(t, state.HasErrors())

	ledger, ok := state.Protocols[TokenLedgerProtocolID]
	require.True(t, ok)
	assert.Equal(t, tokenledger.Schema, ledger.Schema)
	pools, ok := state.Protocols[PoolSetProtocolID]
	require.True(t, ok)
	assert.Equal(t, swappool.Schema, pools.Schema)

	t.Run("StateRootIsDeterministic", func(t *testing.T) {
		again, err := BuildState(1, 0, r.View())
		require.NoError(t, err)
		assert.Equal(t, state.Summary.StateRoot, again.Summary.StateRoot)
	})

	t.Run("StateRootTracksLedgerChanges", func(t *testing.T) {
		require.NoError(t, r.AddLiquidity("A", "B", 1, 1))
		changed, err := BuildState(1, 1, r.View())
		require.NoError(t, err)
		assert.NotEqual(t, state.Summary.StateRoot, changed.Summary.StateRoot)
	})
}

func TestDiffPatchRoundTrip(t *testing.T) {
	ops, err := NewStateOps(testLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	r := newScenarioRegistry(t)
	genesis, err := BuildState(1, 0, r.View())
	require.NoError(t, err)

	// Mutate: one swap plus a liquidity add.
	_, err = r.Swap("A", "B", "A", "B", 100)
	require.NoError(t, err)
	require.NoError(t, r.AddLiquidity("A", "B", 10, 20))

	final, err := BuildState(1, 1, r.View())
	require.NoError(t, err)

	diff, err := ops.Diff(genesis, final)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), diff.FromVersion)
	assert.Equal(t, final.Summary, diff.ToSummary)

	ledgerDiff := diff.Protocols[TokenLedgerProtocolID].Data.(tokenledger.TokenLedgerDiff)
	assert.Len(t, ledgerDiff.Updates, 2, "both balances changed")
	assert.Empty(t, ledgerDiff.Additions)
	assert.Empty(t, ledgerDiff.Deletions)

	poolDiff := diff.Protocols[PoolSetProtocolID].Data.(swappool.PoolSetDiff)
	assert.Len(t, poolDiff.Updates, 1)

	patched, err := ops.Patch(genesis, diff)
	require.NoError(t, err)
	assert.Equal(t, final.Summary, patched.Summary)
	assert.ElementsMatch(t,
		final.Protocols[TokenLedgerProtocolID].Data.([]tokenledger.Token),
		patched.Protocols[TokenLedgerProtocolID].Data.([]tokenledger.Token))
	assert.ElementsMatch(t,
		final.Protocols[PoolSetProtocolID].Data.([]swappool.PoolView),
		patched.Protocols[PoolSetProtocolID].Data.([]swappool.PoolView))
}

func TestDecodeStateJSON(t *testing.T) {
	ops, err := NewStateOps(testLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	t.Run("TokenLedger", func(t *testing.T) {
		raw := json.RawMessage(`[{"name":"A","balance":100}]`)
		decoded, err := ops.DecodeStateJSON(tokenledger.Schema, raw)
		require.NoError(t, err)
		assert.Equal(t, []tokenledger.Token{{Name: "A", Balance: 100}}, decoded)
	})

	t.Run("PoolSet", func(t *testing.T) {
		raw := json.RawMessage(`[{"tokenA":"A","tokenB":"B","reserveA":1,"reserveB":2}]`)
		decoded, err := ops.DecodeStateJSON(swappool.Schema, raw)
		require.NoError(t, err)
		assert.Equal(t, []swappool.PoolView{{TokenA: "A", TokenB: "B", ReserveA: 1, ReserveB: 2}}, decoded)
	})

	t.Run("UnknownSchema", func(t *testing.T) {
		_, err := ops.DecodeStateJSON("bogus", json.RawMessage(`{}`))
		require.Error(t, err)

		_, err = ops.DecodeStateDiffJSON("bogus", json.RawMessage(`{}`))
		require.Error(t, err)
	})
}
