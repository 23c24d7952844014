package ledger

import (
	"fmt"
	"math"
)

type balanceKey struct {
	asset   uint64
	account string
}

type balance struct {
	free     uint64
	reserved uint64
}

// MemoryLedger is an in-memory Ledger used by the replay host and tests.
type MemoryLedger struct {
	balances map[balanceKey]balance
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[balanceKey]balance)}
}

// Deposit credits an account's free balance, clamping at the maximum amount.
// Used to seed genesis state.
func (l *MemoryLedger) Deposit(asset uint64, account string, amount uint64) {
	key := balanceKey{asset: asset, account: account}
	b := l.balances[key]
	if b.free > math.MaxUint64-amount {
		b.free = math.MaxUint64
	} else {
		b.free += amount
	}
	l.balances[key] = b
}

func (l *MemoryLedger) Reserve(asset uint64, account string, amount uint64) error {
	key := balanceKey{asset: asset, account: account}
	b := l.balances[key]
	if b.free < amount {
		return fmt.Errorf("reserve %d of asset %d for %s: %w", amount, asset, account, ErrInsufficientBalance)
	}
	b.free -= amount
	b.reserved += amount
	l.balances[key] = b
	return nil
}

func (l *MemoryLedger) Unreserve(asset uint64, account string, amount uint64) error {
	key := balanceKey{asset: asset, account: account}
	b := l.balances[key]
	if b.reserved < amount {
		return fmt.Errorf("unreserve %d of asset %d for %s: %w", amount, asset, account, ErrInsufficientReserved)
	}
	b.reserved -= amount
	b.free += amount
	l.balances[key] = b
	return nil
}

func (l *MemoryLedger) Transfer(asset uint64, from, to string, amount uint64) error {
	if from == to || amount == 0 {
		return nil
	}
	fromKey := balanceKey{asset: asset, account: from}
	fromBalance := l.balances[fromKey]
	if fromBalance.free < amount {
		return fmt.Errorf("transfer %d of asset %d from %s: %w", amount, asset, from, ErrInsufficientBalance)
	}
	toKey := balanceKey{asset: asset, account: to}
	toBalance := l.balances[toKey]
	fromBalance.free -= amount
	toBalance.free += amount
	l.balances[fromKey] = fromBalance
	l.balances[toKey] = toBalance
	return nil
}

func (l *MemoryLedger) FreeBalance(asset uint64, account string) uint64 {
	return l.balances[balanceKey{asset: asset, account: account}].free
}

func (l *MemoryLedger) ReservedBalance(asset uint64, account string) uint64 {
	return l.balances[balanceKey{asset: asset, account: account}].reserved
}

// TotalBalance returns free plus reserved for an account and asset.
func (l *MemoryLedger) TotalBalance(asset uint64, account string) uint64 {
	b := l.balances[balanceKey{asset: asset, account: account}]
	return b.free + b.reserved
}
