package swapregistry

import (
	"errors"
	"fmt"
	"time"

	"github.com/defistate/swap-engine-go/engine"
	"github.com/defistate/swap-engine-go/protocols/swappool"
	"github.com/defistate/swap-engine-go/protocols/tokenledger"
)

var (
	// ErrTokenNotFound is returned when a token name does not resolve.
	ErrTokenNotFound = errors.New("token not found")
	// ErrPoolNotFound is returned when a directional pool key does not resolve.
	ErrPoolNotFound = errors.New("liquidity pool not found")
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// PoolKey builds the directional key under which a pool is registered.
// (A, B) and (B, A) are distinct entries.
func PoolKey(nameA, nameB string) string {
	return swappool.KeyFor(nameA, nameB)
}

// Config holds the dependencies for a Registry.
type Config struct {
	Logger Logger
	// Events receives the swap-completion trace. Optional; nil means no sink.
	Events engine.EventSink
}

// validate checks if the configuration is valid, ensuring required dependencies are present.
func (c *Config) validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	return nil
}

// Registry is the token and pool directory and the single source of truth for
// name resolution. It is a plain, non-thread-safe structure meant to be
// explicitly constructed and passed around; System provides the
// mutual-exclusion boundary for concurrent callers.
//
// Every operation resolves names first and delegates the math to the pool.
// Methods return typed errors so callers and tests can tell a genuine zero
// from an unresolved name; the sentinel-compatible boundary lives in
// legacy.go.
type Registry struct {
	tokens map[string]*tokenledger.Token
	pools  map[string]*swappool.Pool
	events engine.EventSink
	logger Logger
}

// New creates an empty registry.
func New(cfg *Config) (*Registry, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Registry{
		tokens: make(map[string]*tokenledger.Token),
		pools:  make(map[string]*swappool.Pool),
		events: cfg.Events,
		logger: cfg.Logger,
	}, nil
}

// NewFromView reconstructs a registry from a snapshot view. Live Token
// objects are rebuilt first so every pool references the registry's own
// instances, never the view's values.
func NewFromView(view *RegistryView, cfg *Config) (*Registry, error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}

	for _, tokenView := range view.Tokens {
		token := tokenledger.New(tokenView.Name)
		token.Balance = tokenView.Balance
		r.tokens[token.Name] = token
	}

	for _, poolView := range view.Pools {
		tokenA, okA := r.tokens[poolView.TokenA]
		tokenB, okB := r.tokens[poolView.TokenB]
		if !okA || !okB {
			return nil, fmt.Errorf("%w: pool %s references unknown token", ErrTokenNotFound, poolView.Key())
		}
		r.pools[poolView.Key()] = swappool.New(tokenA, tokenB, poolView.ReserveA, poolView.ReserveB)
	}

	return r, nil
}

// AddToken creates and stores a new zero-balance token under name,
// overwriting any prior entry. Pools constructed against a replaced token
// keep referencing the old object; the registry map is the source of truth
// for subsequent lookups.
func (r *Registry) AddToken(name string) *tokenledger.Token {
	token := tokenledger.New(name)
	r.tokens[name] = token
	return token
}

// AddPool constructs a pool over two registered tokens and stores it under
// the directional key nameA-nameB, overwriting any existing entry. Both
// tokens must already exist.
func (r *Registry) AddPool(nameA, nameB string, reserveA, reserveB uint64) error {
	tokenA, ok := r.tokens[nameA]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, nameA)
	}
	tokenB, ok := r.tokens[nameB]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, nameB)
	}

	r.pools[PoolKey(nameA, nameB)] = swappool.New(tokenA, tokenB, reserveA, reserveB)
	return nil
}

// Credit mints amount onto the named token's balance. This is the faucet
// used to seed balances before trading; swaps themselves never create supply.
func (r *Registry) Credit(name string, amount uint64) error {
	token, ok := r.tokens[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, name)
	}
	return token.Credit(amount)
}

// TokenBalance returns the live balance of the named token.
func (r *Registry) TokenBalance(name string) (uint64, error) {
	token, ok := r.tokens[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTokenNotFound, name)
	}
	return token.Balance, nil
}

// Price delegates to the pool registered under nameA-nameB.
func (r *Registry) Price(nameA, nameB string) (uint64, error) {
	pool, ok := r.pools[PoolKey(nameA, nameB)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPoolNotFound, PoolKey(nameA, nameB))
	}
	return pool.Price()
}

// AddLiquidity grows the pool registered under nameA-nameB by amountA and
// amountB, crediting the constituent token balances alongside the reserves.
func (r *Registry) AddLiquidity(nameA, nameB string, amountA, amountB uint64) error {
	pool, ok := r.pools[PoolKey(nameA, nameB)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPoolNotFound, PoolKey(nameA, nameB))
	}
	return pool.AddLiquidity(amountA, amountB)
}

// Swap executes a swap through the pool registered under poolNameA-poolNameB.
// The from and to tokens are resolved independently of the pool's own
// constituents; callers may reference any registered tokens and the pool
// prices them as-is. On success the swap event is forwarded to the sink and
// the traded amountOut returned.
func (r *Registry) Swap(poolNameA, poolNameB, fromName, toName string, amount uint64) (uint64, error) {
	pool, ok := r.pools[PoolKey(poolNameA, poolNameB)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPoolNotFound, PoolKey(poolNameA, poolNameB))
	}
	fromToken, ok := r.tokens[fromName]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTokenNotFound, fromName)
	}
	toToken, ok := r.tokens[toName]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTokenNotFound, toName)
	}

	amountOut, err := pool.Swap(fromToken, toToken, amount)
	if err != nil {
		return 0, err
	}

	if r.events != nil {
		r.events.Emit(engine.SwapEvent{
			PoolKey:   PoolKey(poolNameA, poolNameB),
			FromToken: fromName,
			ToToken:   toName,
			AmountIn:  amount,
			AmountOut: amountOut,
			Timestamp: time.Now().UnixNano(),
		})
	}
	return amountOut, nil
}
