package swap

import (
	"fmt"

	"fixedswap/internal/ledger"
	"fixedswap/internal/model"
)

// Module executes pool state transitions against a Store and a Ledger. It is
// driven by a single logical thread (the per-block transition sequence), so it
// carries no locking; every transition either fully commits or leaves both the
// store and the ledger untouched.
type Module struct {
	store  *Store
	ledger ledger.Ledger
}

func NewModule(store *Store, l ledger.Ledger) *Module {
	return &Module{store: store, ledger: l}
}

// Store exposes read-only access to the module's state.
func (m *Module) Store() *Store {
	return m.store
}

// Create opens a new pool at the given block height: it reserves total0 of
// asset0 from the creator, stores the pool record, and indexes the pool under
// its end block. Returns the new pool id and the emitted events.
func (m *Module) Create(now uint64, creator string, name []byte, asset0, asset1, total0, total1, duration uint64) (uint64, []model.EventRecord, error) {
	if duration == 0 {
		return 0, nil, ErrInvalidDuration
	}

	if err := m.ledger.Reserve(asset0, creator, total0); err != nil {
		return 0, nil, fmt.Errorf("reserve escrow: %w", err)
	}

	poolID := m.store.nextPoolID
	m.store.insertPool(&model.Pool{
		ID:       poolID,
		Name:     name,
		Creator:  creator,
		Asset0:   asset0,
		Asset1:   asset1,
		Total0:   total0,
		Total1:   total1,
		Duration: duration,
		StartAt:  now,
		EndAt:    satAdd(now, duration),
	})

	events := []model.EventRecord{{
		Height:  now,
		Type:    model.EventPoolCreated,
		PoolID:  poolID,
		Account: creator,
	}}
	return poolID, events, nil
}
