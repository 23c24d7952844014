package swap

import (
	"sort"

	"fixedswap/internal/model"
)

type swapKey struct {
	poolID uint64
	buyer  string
}

// Store owns the module's durable state: the pool records, the per-buyer swap
// records, the expiry index, and the next pool id. All mutation goes through
// Module; the exported methods are read-only copies.
type Store struct {
	nextPoolID uint64
	pools      map[uint64]*model.Pool
	swaps      map[swapKey]*model.SwapRecord
	// expiry maps an end block to the ids of pools ending there, in creation
	// order. A bucket is deleted when the scheduler drains it.
	expiry map[uint64][]uint64
}

func NewStore() *Store {
	return &Store{
		pools:  make(map[uint64]*model.Pool),
		swaps:  make(map[swapKey]*model.SwapRecord),
		expiry: make(map[uint64][]uint64),
	}
}

// NextPoolID returns the id the next created pool will receive.
func (s *Store) NextPoolID() uint64 {
	return s.nextPoolID
}

// Pool returns a copy of the pool record, or ErrPoolNotFound.
func (s *Store) Pool(id uint64) (model.Pool, error) {
	p, ok := s.pools[id]
	if !ok {
		return model.Pool{}, ErrPoolNotFound
	}
	return *p, nil
}

// Pools returns copies of every pool record, ordered by id.
func (s *Store) Pools() []model.Pool {
	out := make([]model.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SwapRecord returns a copy of the buyer's accumulated record for a pool.
func (s *Store) SwapRecord(poolID uint64, buyer string) (model.SwapRecord, bool) {
	r, ok := s.swaps[swapKey{poolID: poolID, buyer: buyer}]
	if !ok {
		return model.SwapRecord{}, false
	}
	return *r, true
}

// SwapRecords returns copies of every swap record, ordered by pool id then
// buyer.
func (s *Store) SwapRecords() []model.SwapRecord {
	out := make([]model.SwapRecord, 0, len(s.swaps))
	for _, r := range s.swaps {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PoolID != out[j].PoolID {
			return out[i].PoolID < out[j].PoolID
		}
		return out[i].Buyer < out[j].Buyer
	})
	return out
}

// NextExpiry returns the smallest end block with pools awaiting finalization.
func (s *Store) NextExpiry() (uint64, bool) {
	var next uint64
	found := false
	for endAt := range s.expiry {
		if !found || endAt < next {
			next = endAt
			found = true
		}
	}
	return next, found
}

// PendingExpiries reports how many pools still await finalization.
func (s *Store) PendingExpiries() int {
	n := 0
	for _, ids := range s.expiry {
		n += len(ids)
	}
	return n
}

func (s *Store) insertPool(p *model.Pool) {
	s.pools[p.ID] = p
	s.expiry[p.EndAt] = append(s.expiry[p.EndAt], p.ID)
	s.nextPoolID = satAdd(s.nextPoolID, 1)
}

// drainExpiry removes and returns the ids of all pools ending at the given
// block, in creation order. Each id is returned exactly once, ever.
func (s *Store) drainExpiry(now uint64) []uint64 {
	ids, ok := s.expiry[now]
	if !ok {
		return nil
	}
	delete(s.expiry, now)
	return ids
}

func (s *Store) accumulateSwap(poolID uint64, buyer string, amount0, amount1 uint64) {
	key := swapKey{poolID: poolID, buyer: buyer}
	r, ok := s.swaps[key]
	if !ok {
		r = &model.SwapRecord{PoolID: poolID, Buyer: buyer}
		s.swaps[key] = r
	}
	r.Amount0 = satAdd(r.Amount0, amount0)
	r.Amount1 = satAdd(r.Amount1, amount1)
}
