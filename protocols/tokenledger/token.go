package tokenledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/defistate/swap-engine-go/engine"
)

// Schema is the decode contract for the token ledger view.
const Schema engine.ProtocolSchema = "defistate/swap-engine/tokenLedger@v1"

var (
	// ErrBalanceOverflow is returned when a credit would exceed the uint64 range.
	// Ledger arithmetic is checked: a mutation that cannot be represented fails
	// outright instead of wrapping.
	ErrBalanceOverflow = errors.New("token balance overflow")
	// ErrInsufficientBalance is returned when a debit exceeds the current balance.
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

// Token is a named, mutable unsigned balance. The name is the token's identity
// and never changes after construction. Balances are only mutated through
// Credit and Debit so the zero floor and the overflow ceiling are enforced on
// every path.
type Token struct {
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

// New creates a token with a zero balance.
func New(name string) *Token {
	return &Token{Name: name}
}

// Credit adds amount to the balance. The balance is unchanged on error.
func (t *Token) Credit(amount uint64) error {
	if t.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: %s balance %d + %d", ErrBalanceOverflow, t.Name, t.Balance, amount)
	}
	t.Balance += amount
	return nil
}

// Debit removes amount from the balance. The balance is unchanged on error.
func (t *Token) Debit(amount uint64) error {
	if t.Balance < amount {
		return fmt.Errorf("%w: %s balance %d < %d", ErrInsufficientBalance, t.Name, t.Balance, amount)
	}
	t.Balance -= amount
	return nil
}

// CanCredit reports whether a credit of amount would stay in range.
func (t *Token) CanCredit(amount uint64) bool {
	return t.Balance <= math.MaxUint64-amount
}
