package model

// Event types emitted by pool state transitions.
const (
	EventPoolCreated = "pool_created"
	EventPoolSwapped = "pool_swapped"
	EventPoolClosed  = "pool_closed"
)

// EventRecord is a notification emitted by a state transition, stamped with
// the block height it was produced at. Account carries the creator for
// pool_created and the buyer for pool_swapped; Amount0/Amount1 are only set
// on pool_swapped.
type EventRecord struct {
	Height  uint64 `json:"height"`
	Type    string `json:"type"`
	PoolID  uint64 `json:"pool_id"`
	Account string `json:"account,omitempty"`
	Amount0 uint64 `json:"amount0,omitempty"`
	Amount1 uint64 `json:"amount1,omitempty"`
}
