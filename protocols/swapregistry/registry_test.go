package swapregistry

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/defistate/swap-engine-go/engine"
	"github.com/defistate/swap-engine-go/protocols/swappool"
	"github.com/defistate/swap-engine-go/protocols/tokenledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// collectSink records emitted events for assertions.
type collectSink struct {
	events []engine.SwapEvent
}

func (s *collectSink) Emit(event engine.SwapEvent) {
	s.events = append(s.events, event)
}

func newTestRegistry(t *testing.T) (*Registry, *collectSink) {
	t.Helper()
	sink := &collectSink{}
	r, err := New(&Config{Logger: testLogger(), Events: sink})
	require.NoError(t, err)
	return r, sink
}

func TestRegistryDirectory(t *testing.T) {
	t.Run("AddTokenLastWriteWins", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		first := r.AddToken("A")
		first.Balance = 42
		second := r.AddToken("A")

		balance, err := r.TokenBalance("A")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), balance, "re-adding a token resets it")
		assert.NotSame(t, first, second)
	})

	t.Run("AddPoolRequiresBothTokens", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		r.AddToken("A")

		err := r.AddPool("A", "Missing", 100, 200)
		require.ErrorIs(t, err, ErrTokenNotFound)

		require.NoError(t, func() error {
			r.AddToken("B")
			return r.AddPool("A", "B", 100, 200)
		}())
	})

	t.Run("PoolKeysAreDirectional", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		r.AddToken("A")
		r.AddToken("B")
		require.NoError(t, r.AddPool("A", "B", 100, 200))

		_, err := r.Price("B", "A")
		require.ErrorIs(t, err, ErrPoolNotFound, "B-A is a distinct entry from A-B")

		_, err = r.Price("A", "B")
		require.NoError(t, err)
	})

	t.Run("CreditSeedsBalance", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		r.AddToken("A")

		require.NoError(t, r.Credit("A", 200))
		require.NoError(t, r.Credit("A", 50))

		balance, err := r.TokenBalance("A")
		require.NoError(t, err)
		assert.Equal(t, uint64(250), balance)

		require.ErrorIs(t, r.Credit("Missing", 1), ErrTokenNotFound)
		require.ErrorIs(t, r.Credit("A", math.MaxUint64), tokenledger.ErrBalanceOverflow)
	})

	t.Run("TokenBalanceDistinguishesZeroFromMissing", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		r.AddToken("A")

		balance, err := r.TokenBalance("A")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), balance)

		_, err = r.TokenBalance("Nonexistent")
		require.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestRegistryScenarios(t *testing.T) {
	t.Run("PriceOnFreshPool", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		r.AddToken("A")
		r.AddToken("B")
		require.NoError(t, r.AddPool("A", "B", 100, 200))

		price, err := r.Price("A", "B")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), price, "tokenB balance is 0 initially")
	})

	t.Run("AddLiquidity", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		r.AddToken("A")
		r.AddToken("B")
		require.NoError(t, r.AddPool("A", "B", 100, 200))

		require.NoError(t, r.AddLiquidity("A", "B", 50, 100))

		balanceA, err := r.TokenBalance("A")
		require.NoError(t, err)
		balanceB, err := r.TokenBalance("B")
		require.NoError(t, err)
		assert.Equal(t, uint64(50), balanceA)
		assert.Equal(t, uint64(100), balanceB)

		view := r.View()
		require.Len(t, view.Pools, 1)
		assert.Equal(t, uint64(150), view.Pools[0].ReserveA)
		assert.Equal(t, uint64(300), view.Pools[0].ReserveB)
	})

	t.Run("Swap", func(t *testing.T) {
		r, sink := newTestRegistry(t)
		tokenA := r.AddToken("A")
		tokenB := r.AddToken("B")
		tokenA.Balance = 200
		tokenB.Balance = 400
		require.NoError(t, r.AddPool("A", "B", 100, 200))

		amountOut, err := r.Swap("A", "B", "A", "B", 100)
		require.NoError(t, err)
		assert.Equal(t, uint64(66), amountOut)

		assert.Equal(t, uint64(100), tokenA.Balance)
		assert.Equal(t, uint64(466), tokenB.Balance)

		view := r.View()
		require.Len(t, view.Pools, 1)
		assert.Equal(t, uint64(200), view.Pools[0].ReserveA)
		assert.Equal(t, uint64(134), view.Pools[0].ReserveB)

		require.Len(t, sink.events, 1)
		event := sink.events[0]
		assert.Equal(t, "A-B", event.PoolKey)
		assert.Equal(t, "A", event.FromToken)
		assert.Equal(t, "B", event.ToToken)
		assert.Equal(t, uint64(100), event.AmountIn)
		assert.Equal(t, uint64(66), event.AmountOut)
	})

	t.Run("SwapWithUnrelatedTokensIsAccepted", func(t *testing.T) {
		r, sink := newTestRegistry(t)
		r.AddToken("A")
		r.AddToken("B")
		other := r.AddToken("C")
		other.Balance = 500
		require.NoError(t, r.AddPool("A", "B", 100, 200))

		// The from/to tokens need not be the pool's own constituents.
		amountOut, err := r.Swap("A", "B", "C", "B", 100)
		require.NoError(t, err)
		assert.NotZero(t, amountOut)
		assert.Equal(t, uint64(400), other.Balance)
		require.Len(t, sink.events, 1)
		assert.Equal(t, "C", sink.events[0].FromToken)
	})

	t.Run("UnresolvedNamesLeaveStateUnchanged", func(t *testing.T) {
		r, sink := newTestRegistry(t)
		tokenA := r.AddToken("A")
		tokenB := r.AddToken("B")
		tokenA.Balance = 200
		tokenB.Balance = 400
		require.NoError(t, r.AddPool("A", "B", 100, 200))
		before := r.View()

		_, err := r.Swap("A", "Nope", "A", "B", 100)
		require.ErrorIs(t, err, ErrPoolNotFound)
		_, err = r.Swap("A", "B", "Nope", "B", 100)
		require.ErrorIs(t, err, ErrTokenNotFound)
		_, err = r.Swap("A", "B", "A", "Nope", 100)
		require.ErrorIs(t, err, ErrTokenNotFound)

		assert.Equal(t, before, r.View())
		assert.Empty(t, sink.events)
	})

	t.Run("GuardedSwapIsNoOp", func(t *testing.T) {
		r, sink := newTestRegistry(t)
		tokenA := r.AddToken("A")
		tokenB := r.AddToken("B")
		tokenA.Balance = 50
		tokenB.Balance = 400
		require.NoError(t, r.AddPool("A", "B", 100, 200))
		before := r.View()

		_, err := r.Swap("A", "B", "A", "B", 100)
		require.ErrorIs(t, err, tokenledger.ErrInsufficientBalance)

		assert.Equal(t, before, r.View())
		assert.Equal(t, uint64(50), tokenA.Balance)
		assert.Empty(t, sink.events)
	})
}

func TestLegacyBoundary(t *testing.T) {
	r, sink := newTestRegistry(t)
	tokenA := r.AddToken("A")
	tokenB := r.AddToken("B")
	tokenA.Balance = 200
	tokenB.Balance = 400
	r.AddLiquidityPool("A", "B", 100, 200)

	t.Run("SentinelLookups", func(t *testing.T) {
		assert.Equal(t, uint64(0), r.GetTokenBalance("Nonexistent"))
		assert.Equal(t, uint64(0), r.CalculatePrice("A", "Nonexistent"))
		assert.Equal(t, uint64(200), r.GetTokenBalance("A"))
	})

	t.Run("SilentNoOps", func(t *testing.T) {
		before := r.View()

		r.AddLiquidityPool("A", "Nonexistent", 1, 1)
		r.AddPoolLiquidity("A", "Nonexistent", 1, 1)
		r.SwapTheToken("A", "Nonexistent", "A", "B", 100)
		r.SwapTheToken("A", "B", "A", "B", 10_000) // insufficient balance

		assert.Equal(t, before, r.View())
		assert.Empty(t, sink.events)
	})

	t.Run("SuccessfulSwapStillWorks", func(t *testing.T) {
		r.SwapTheToken("A", "B", "A", "B", 100)
		assert.Equal(t, uint64(100), r.GetTokenBalance("A"))
		assert.Equal(t, uint64(466), r.GetTokenBalance("B"))
		assert.Len(t, sink.events, 1)
	})
}

func TestRegistryViewRoundTrip(t *testing.T) {
	r, _ := newTestRegistry(t)
	tokenA := r.AddToken("A")
	tokenA.Balance = 10
	r.AddToken("B")
	r.AddToken("C")
	require.NoError(t, r.AddPool("A", "B", 100, 200))
	require.NoError(t, r.AddPool("C", "A", 5, 7))

	view := r.View()
	assert.Equal(t, []tokenledger.Token{
		{Name: "A", Balance: 10},
		{Name: "B", Balance: 0},
		{Name: "C", Balance: 0},
	}, view.Tokens)
	assert.Equal(t, []swappool.PoolView{
		{TokenA: "A", TokenB: "B", ReserveA: 100, ReserveB: 200},
		{TokenA: "C", TokenB: "A", ReserveA: 5, ReserveB: 7},
	}, view.Pools)

	restored, err := NewFromView(view, &Config{Logger: testLogger()})
	require.NoError(t, err)
	assert.Equal(t, view, restored.View())

	// The restored registry owns live tokens shared with its pools.
	require.NoError(t, restored.AddLiquidity("A", "B", 1, 2))
	assert.Equal(t, uint64(11), restored.GetTokenBalance("A"))
}
