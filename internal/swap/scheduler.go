package swap

import (
	"fmt"

	"fixedswap/internal/model"
)

// OnFinalize settles every pool whose window ends at the given block height.
// It drains the expiry bucket for now, releases each pool's unsold escrow back
// to its creator, and emits a pool_closed event per pool. Pool records stay in
// the store as history. The host must call this exactly once per block, before
// that block's transactions.
//
// A ledger failure here means reserved escrow the module accounted for no
// longer exists; that inconsistency is returned as an error rather than
// skipped, since skipping would strand the escrow forever.
func (m *Module) OnFinalize(now uint64) ([]model.EventRecord, error) {
	var events []model.EventRecord
	for _, poolID := range m.store.drainExpiry(now) {
		pool, ok := m.store.pools[poolID]
		if !ok {
			return events, fmt.Errorf("finalize pool %d: record missing from store", poolID)
		}
		unswapped0 := satSub(pool.Total0, pool.Swapped0)
		if unswapped0 > 0 {
			if err := m.ledger.Unreserve(pool.Asset0, pool.Creator, unswapped0); err != nil {
				return events, fmt.Errorf("finalize pool %d: release escrow: %w", poolID, err)
			}
		}
		events = append(events, model.EventRecord{
			Height: now,
			Type:   model.EventPoolClosed,
			PoolID: poolID,
		})
	}
	return events, nil
}
