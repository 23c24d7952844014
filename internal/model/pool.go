package model

// Pool is the durable record of a single fixed-rate swap pool. The creator
// escrows Total0 of Asset0 against a target of Total1 of Asset1; the implied
// rate Total0/Total1 is fixed for the pool's whole lifetime.
type Pool struct {
	ID       uint64 `json:"id"`
	Name     []byte `json:"name"`
	Creator  string `json:"creator"`
	Asset0   uint64 `json:"asset0"`
	Asset1   uint64 `json:"asset1"`
	Total0   uint64 `json:"total0"`
	Total1   uint64 `json:"total1"`
	Swapped0 uint64 `json:"swapped0"`
	Swapped1 uint64 `json:"swapped1"`
	Duration uint64 `json:"duration"`
	StartAt  uint64 `json:"start_at"`
	EndAt    uint64 `json:"end_at"`
}

// SwapRecord accumulates one buyer's purchases from one pool. Records are
// created on the buyer's first swap and kept forever as history.
type SwapRecord struct {
	PoolID  uint64 `json:"pool_id"`
	Buyer   string `json:"buyer"`
	Amount0 uint64 `json:"amount0"`
	Amount1 uint64 `json:"amount1"`
}

// GenesisBalance is one initial free balance line in a genesis file.
type GenesisBalance struct {
	Account string `json:"account"`
	Asset   uint64 `json:"asset"`
	Amount  uint64 `json:"amount"`
}
