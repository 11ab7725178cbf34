package swappool

import (
	"errors"
	"fmt"
	"math"

	"github.com/defistate/swap-engine-go/protocols/tokenledger"
	"github.com/holiman/uint256"
)

const (
	// feeNumerator and feeDenominator encode the 0.3% swap fee: the input
	// amount is scaled by 997/1000 before pricing.
	feeNumerator   = 997
	feeDenominator = 1000
)

var (
	// ErrZeroAmountOut is returned when the priced output truncates to zero.
	ErrZeroAmountOut = errors.New("swap amount out is zero")
	// ErrAmountOverflow is returned when a priced amount does not fit in uint64.
	ErrAmountOverflow = errors.New("amount overflows uint64")
	// ErrReserveOverflow is returned when a reserve adjustment would leave the uint64 range.
	ErrReserveOverflow = errors.New("reserve overflows uint64")
)

// Pool prices and executes swaps between exactly two tokens using the
// constant-product formula. It holds non-owning references to the tokens it
// was constructed with plus its own reserve accounting of deposited
// quantities.
//
// Reserve adjustments are fixed to the A/B slots: Swap always grows ReserveA
// and shrinks ReserveB, and Price always reads ReserveA against tokenB's live
// balance, whichever direction the caller trades in. This slot-fixed
// behavior is the pool's documented contract.
type Pool struct {
	TokenA   *tokenledger.Token
	TokenB   *tokenledger.Token
	ReserveA uint64
	ReserveB uint64
}

// New creates a pool over two live tokens with the given starting reserves.
func New(tokenA, tokenB *tokenledger.Token, reserveA, reserveB uint64) *Pool {
	return &Pool{
		TokenA:   tokenA,
		TokenB:   tokenB,
		ReserveA: reserveA,
		ReserveB: reserveB,
	}
}

// Price returns reserveA * tokenB.Balance / reserveB with truncating integer
// division, or 0 when reserveB is zero. The product is computed in 256 bits;
// a quotient that does not fit uint64 fails with ErrAmountOverflow.
func (p *Pool) Price() (uint64, error) {
	if p.ReserveB == 0 {
		return 0, nil
	}

	num := new(uint256.Int).Mul(
		uint256.NewInt(p.ReserveA),
		uint256.NewInt(p.TokenB.Balance),
	)
	quot := num.Div(num, uint256.NewInt(p.ReserveB))

	if !quot.IsUint64() {
		return 0, fmt.Errorf("%w: price %s", ErrAmountOverflow, quot.Dec())
	}
	return quot.Uint64(), nil
}

// AddLiquidity credits both token balances and grows both reserves by the
// given amounts. The operation is atomic: every addition is range-checked
// first, and on any failure no balance or reserve is touched.
func (p *Pool) AddLiquidity(amountA, amountB uint64) error {
	if !p.TokenA.CanCredit(amountA) {
		return fmt.Errorf("%w: token %s", tokenledger.ErrBalanceOverflow, p.TokenA.Name)
	}
	if !p.TokenB.CanCredit(amountB) {
		return fmt.Errorf("%w: token %s", tokenledger.ErrBalanceOverflow, p.TokenB.Name)
	}
	if p.ReserveA > math.MaxUint64-amountA {
		return fmt.Errorf("%w: reserveA %d + %d", ErrReserveOverflow, p.ReserveA, amountA)
	}
	if p.ReserveB > math.MaxUint64-amountB {
		return fmt.Errorf("%w: reserveB %d + %d", ErrReserveOverflow, p.ReserveB, amountB)
	}

	p.TokenA.Balance += amountA
	p.TokenB.Balance += amountB
	p.ReserveA += amountA
	p.ReserveB += amountB
	return nil
}

// AmountOut prices a swap of amountIn units of fromToken against the pool:
//
//	inWithFee = amountIn * 997
//	amountOut = inWithFee * reserveB / (fromToken.balance * 1000 + inWithFee)
//
// with truncating integer division. The numerator always uses ReserveB, for
// either trade direction. Intermediates are computed in 256 bits so the fee
// multiplication cannot wrap; a zero denominator prices to 0.
func (p *Pool) AmountOut(fromToken, toToken *tokenledger.Token, amountIn uint64) (uint64, error) {
	inWithFee := new(uint256.Int).Mul(
		uint256.NewInt(amountIn),
		uint256.NewInt(feeNumerator),
	)

	denominator := new(uint256.Int).Mul(
		uint256.NewInt(fromToken.Balance),
		uint256.NewInt(feeDenominator),
	)
	denominator.Add(denominator, inWithFee)

	if denominator.IsZero() {
		return 0, nil
	}

	numerator := new(uint256.Int).Mul(inWithFee, uint256.NewInt(p.ReserveB))
	out := numerator.Div(numerator, denominator)

	if !out.IsUint64() {
		return 0, fmt.Errorf("%w: amountOut %s", ErrAmountOverflow, out.Dec())
	}
	return out.Uint64(), nil
}

// Swap executes a swap of amount units of fromToken for toToken. Guard
// failures (insufficient balance, zero output, out-of-range adjustments)
// return a typed error and leave every balance and reserve unchanged.
// On success the traded amountOut is returned; fromToken is debited, toToken
// credited, ReserveA grown by amount and ReserveB shrunk by amountOut.
func (p *Pool) Swap(fromToken, toToken *tokenledger.Token, amount uint64) (uint64, error) {
	if fromToken.Balance < amount {
		return 0, fmt.Errorf("%w: %s balance %d < %d", tokenledger.ErrInsufficientBalance, fromToken.Name, fromToken.Balance, amount)
	}

	amountOut, err := p.AmountOut(fromToken, toToken, amount)
	if err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, ErrZeroAmountOut
	}

	// Validate every adjustment before mutating anything.
	if !toToken.CanCredit(amountOut) {
		return 0, fmt.Errorf("%w: token %s", tokenledger.ErrBalanceOverflow, toToken.Name)
	}
	if p.ReserveA > math.MaxUint64-amount {
		return 0, fmt.Errorf("%w: reserveA %d + %d", ErrReserveOverflow, p.ReserveA, amount)
	}
	if p.ReserveB < amountOut {
		return 0, fmt.Errorf("%w: reserveB %d < amountOut %d", ErrReserveOverflow, p.ReserveB, amountOut)
	}

	fromToken.Balance -= amount
	toToken.Balance += amountOut
	p.ReserveA += amount
	p.ReserveB -= amountOut
	return amountOut, nil
}
