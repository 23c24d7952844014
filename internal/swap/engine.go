package swap

import (
	"fmt"

	"fixedswap/internal/ledger"
	"fixedswap/internal/model"
)

// Swap buys into a pool at its fixed rate: the buyer pays amount1 of asset1
// to the creator and receives floor(amount1 * total0 / total1) of asset0 out
// of the creator's escrow. The swap is rejected once now reaches the pool's
// end block, and when it would push the pool past its declared totals.
func (m *Module) Swap(now uint64, buyer string, poolID uint64, amount1 uint64) ([]model.EventRecord, error) {
	pool, ok := m.store.pools[poolID]
	if !ok {
		return nil, ErrPoolNotFound
	}
	if now >= pool.EndAt {
		return nil, ErrPoolExpired
	}

	amount0, err := price(amount1, pool.Total0, pool.Total1)
	if err != nil {
		return nil, err
	}
	if amount1 > satSub(pool.Total1, pool.Swapped1) || amount0 > satSub(pool.Total0, pool.Swapped0) {
		return nil, ErrPoolSoldOut
	}

	// Balances are verified up front so the three ledger moves below cannot
	// fail halfway; the pool record is only mutated after all of them succeed.
	if m.ledger.ReservedBalance(pool.Asset0, pool.Creator) < amount0 {
		return nil, ledger.ErrInsufficientReserved
	}
	// Transfers between the same account are no-ops, so a creator buying from
	// their own pool needs no asset1 balance.
	if buyer != pool.Creator && m.ledger.FreeBalance(pool.Asset1, buyer) < amount1 {
		return nil, ledger.ErrInsufficientBalance
	}

	if err := m.ledger.Unreserve(pool.Asset0, pool.Creator, amount0); err != nil {
		return nil, fmt.Errorf("unreserve escrow: %w", err)
	}
	if err := m.ledger.Transfer(pool.Asset0, pool.Creator, buyer, amount0); err != nil {
		return nil, fmt.Errorf("transfer asset0 to buyer: %w", err)
	}
	if err := m.ledger.Transfer(pool.Asset1, buyer, pool.Creator, amount1); err != nil {
		return nil, fmt.Errorf("transfer asset1 to creator: %w", err)
	}

	pool.Swapped0 = satAdd(pool.Swapped0, amount0)
	pool.Swapped1 = satAdd(pool.Swapped1, amount1)
	m.store.accumulateSwap(poolID, buyer, amount0, amount1)

	events := []model.EventRecord{{
		Height:  now,
		Type:    model.EventPoolSwapped,
		PoolID:  poolID,
		Account: buyer,
		Amount0: amount0,
		Amount1: amount1,
	}}
	return events, nil
}
