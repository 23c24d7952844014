package chain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fixedswap/internal/model"
	"fixedswap/internal/storage"
	"fixedswap/internal/swap"
)

// RunConfig holds runtime settings for a replay.
type RunConfig struct {
	ScriptPath string
	// EndHeight caps the replay; 0 means run until every scripted op has been
	// applied and every created pool has been finalized.
	EndHeight  uint64
	StateStore StateStore
}

// SnapshotStore persists pool and swap-record snapshots after a replay.
// *postgres.Store satisfies it.
type SnapshotStore interface {
	InsertEvents(ctx context.Context, events []model.EventRecord) error
	UpsertPools(ctx context.Context, pools []model.Pool) error
	UpsertSwapRecords(ctx context.Context, records []model.SwapRecord) error
}

// Runner drives the swap module through the deterministic per-block sequence:
// at each height it finalizes expiring pools first, then applies that height's
// scripted operations in order, and writes the emitted events to its sinks.
type Runner struct {
	cfg    RunConfig
	module *swap.Module
	events storage.Storage
	snap   SnapshotStore
	logger *zap.Logger
}

// NewRunner builds a Runner. The snapshot store may be nil.
func NewRunner(cfg RunConfig, module *swap.Module, events storage.Storage, snap SnapshotStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		module: module,
		events: events,
		snap:   snap,
		logger: logger,
	}
}

// Run executes the replay loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.module == nil {
		return fmt.Errorf("module is nil")
	}
	if r.events == nil {
		return fmt.Errorf("event storage is nil")
	}

	ops, err := ReadScript(r.cfg.ScriptPath)
	if err != nil {
		return err
	}

	var checkpoint uint64
	resumed := false
	if r.cfg.StateStore != nil {
		checkpoint, resumed, err = r.cfg.StateStore.Load(ctx)
		if err != nil {
			return err
		}
		if resumed {
			r.logger.Info("resuming replay", zap.Uint64("checkpoint", checkpoint))
		}
	}

	store := r.module.Store()
	height := uint64(0)
	idx := 0
	emitted := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		blockEvents, err := r.module.OnFinalize(height)
		if err != nil {
			return fmt.Errorf("finalize block %d: %w", height, err)
		}
		for idx < len(ops) && ops[idx].Height == height {
			blockEvents = append(blockEvents, r.applyOp(ops[idx])...)
			idx++
		}

		if len(blockEvents) > 0 && (!resumed || height > checkpoint) {
			if err := r.events.PutEventBatch(blockEvents); err != nil {
				return fmt.Errorf("write events at block %d: %w", height, err)
			}
			if r.snap != nil {
				if err := r.snap.InsertEvents(ctx, blockEvents); err != nil {
					return fmt.Errorf("persist events at block %d: %w", height, err)
				}
			}
			emitted += len(blockEvents)
		}

		if r.cfg.EndHeight != 0 && height >= r.cfg.EndHeight {
			break
		}
		if idx >= len(ops) {
			next, ok := store.NextExpiry()
			if !ok {
				break
			}
			if r.cfg.EndHeight != 0 && next > r.cfg.EndHeight {
				break
			}
			// No scripted ops remain, so the blocks in between are empty;
			// jump straight to the next expiring bucket.
			height = next
			continue
		}
		height++
	}

	if pending := store.PendingExpiries(); pending > 0 {
		r.logger.Warn("stopping with pools still open", zap.Int("pending", pending))
	}

	if r.snap != nil {
		if err := r.snap.UpsertPools(ctx, store.Pools()); err != nil {
			return fmt.Errorf("persist pool snapshots: %w", err)
		}
		if err := r.snap.UpsertSwapRecords(ctx, store.SwapRecords()); err != nil {
			return fmt.Errorf("persist swap records: %w", err)
		}
	}
	if r.cfg.StateStore != nil {
		if err := r.cfg.StateStore.Save(ctx, height); err != nil {
			return fmt.Errorf("save replay state: %w", err)
		}
	}

	r.logger.Info("replay done",
		zap.Uint64("last_height", height),
		zap.Int("ops", len(ops)),
		zap.Int("events", emitted),
		zap.Int("pools", len(store.Pools())),
	)
	return nil
}

// applyOp applies one scripted operation. A rejected op is logged and skipped,
// the way a host chain records a failed transaction without halting.
func (r *Runner) applyOp(op model.Op) []model.EventRecord {
	switch op.Kind {
	case model.OpCreate:
		poolID, events, err := r.module.Create(op.Height, op.Account, []byte(op.Name), op.Asset0, op.Asset1, op.Total0, op.Total1, op.Duration)
		if err != nil {
			r.logger.Warn("create rejected",
				zap.Uint64("height", op.Height),
				zap.String("creator", op.Account),
				zap.Error(err),
			)
			return nil
		}
		r.logger.Debug("pool created",
			zap.Uint64("height", op.Height),
			zap.Uint64("pool_id", poolID),
			zap.String("creator", op.Account),
		)
		return events
	case model.OpSwap:
		events, err := r.module.Swap(op.Height, op.Account, op.PoolID, op.Amount1)
		if err != nil {
			r.logger.Warn("swap rejected",
				zap.Uint64("height", op.Height),
				zap.Uint64("pool_id", op.PoolID),
				zap.String("buyer", op.Account),
				zap.Error(err),
			)
			return nil
		}
		r.logger.Debug("pool swapped",
			zap.Uint64("height", op.Height),
			zap.Uint64("pool_id", op.PoolID),
			zap.String("buyer", op.Account),
		)
		return events
	}
	return nil
}
