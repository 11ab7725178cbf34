package swapregistry

// Sentinel-compatible boundary methods. External dispatch layers built
// against the original engine expect every failure to look like "nothing
// happened": lookups return 0 and mutations return silently. These wrappers
// preserve that observable contract while the typed methods in registry.go
// carry the diagnostics. Guard failures are logged at debug level only.

// GetTokenBalance returns the token's balance, or 0 when the name is
// unresolved. A genuine zero balance and a missing token are
// indistinguishable here; use TokenBalance to tell them apart.
func (r *Registry) GetTokenBalance(name string) uint64 {
	balance, err := r.TokenBalance(name)
	if err != nil {
		r.logger.Debug("getTokenBalance no-op", "token", name, "error", err)
		return 0
	}
	return balance
}

// CalculatePrice returns the pool's price, or 0 when the pool is unresolved.
func (r *Registry) CalculatePrice(nameA, nameB string) uint64 {
	price, err := r.Price(nameA, nameB)
	if err != nil {
		r.logger.Debug("calculatePrice no-op", "poolKey", PoolKey(nameA, nameB), "error", err)
		return 0
	}
	return price
}

// AddLiquidityPool registers a pool, silently doing nothing when either token
// name is unresolved.
func (r *Registry) AddLiquidityPool(nameA, nameB string, reserveA, reserveB uint64) {
	if err := r.AddPool(nameA, nameB, reserveA, reserveB); err != nil {
		r.logger.Debug("addLiquidityPool no-op", "poolKey", PoolKey(nameA, nameB), "error", err)
	}
}

// AddPoolLiquidity grows a pool, silently doing nothing when the pool key is
// unresolved or an addition would overflow.
func (r *Registry) AddPoolLiquidity(nameA, nameB string, amountA, amountB uint64) {
	if err := r.AddLiquidity(nameA, nameB, amountA, amountB); err != nil {
		r.logger.Debug("addPoolLiquidity no-op", "poolKey", PoolKey(nameA, nameB), "error", err)
	}
}

// SwapTheToken executes a swap, silently doing nothing when the pool or
// either token is unresolved, when the from balance is insufficient, or when
// the priced output is zero.
func (r *Registry) SwapTheToken(poolNameA, poolNameB, fromName, toName string, amount uint64) {
	if _, err := r.Swap(poolNameA, poolNameB, fromName, toName, amount); err != nil {
		r.logger.Debug("swapTheToken no-op",
			"poolKey", PoolKey(poolNameA, poolNameB),
			"fromToken", fromName,
			"toToken", toName,
			"amount", amount,
			"error", err,
		)
	}
}

// The same boundary on System: refused writes (including write-access
// denials) look identical to "nothing happened".

func (s *System) GetTokenBalance(name string) uint64 {
	balance, err := s.TokenBalance(name)
	if err != nil {
		return 0
	}
	return balance
}

func (s *System) CalculatePrice(nameA, nameB string) uint64 {
	price, err := s.Price(nameA, nameB)
	if err != nil {
		return 0
	}
	return price
}

func (s *System) AddLiquidityPool(nameA, nameB string, reserveA, reserveB uint64) {
	_ = s.AddPool(nameA, nameB, reserveA, reserveB)
}

func (s *System) AddPoolLiquidity(nameA, nameB string, amountA, amountB uint64) {
	_ = s.AddLiquidity(nameA, nameB, amountA, amountB)
}

func (s *System) SwapTheToken(poolNameA, poolNameB, fromName, toName string, amount uint64) {
	_, _ = s.Swap(poolNameA, poolNameB, fromName, toName, amount)
}
