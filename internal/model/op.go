package model

// Operation kinds accepted in a block script.
const (
	OpCreate = "create"
	OpSwap   = "swap"
)

// Op is one scripted operation submitted at a given block height. Create ops
// use the Name/Asset/Total/Duration fields; swap ops use PoolID/Amount1.
type Op struct {
	Height  uint64 `json:"height"`
	Kind    string `json:"kind"`
	Account string `json:"account"`

	Name     string `json:"name,omitempty"`
	Asset0   uint64 `json:"asset0,omitempty"`
	Asset1   uint64 `json:"asset1,omitempty"`
	Total0   uint64 `json:"total0,omitempty"`
	Total1   uint64 `json:"total1,omitempty"`
	Duration uint64 `json:"duration,omitempty"`

	PoolID  uint64 `json:"pool_id,omitempty"`
	Amount1 uint64 `json:"amount1,omitempty"`
}
