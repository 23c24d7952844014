package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixedswap/internal/model"
)

// Store provides Postgres persistence for replay outputs.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InsertEvents appends emitted events. Replays are deterministic, so the same
// event at the same position is simply overwritten on re-run.
func (s *Store) InsertEvents(ctx context.Context, events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, e := range events {
		batch.Queue(`
			INSERT INTO pool_events (
				height, seq, event_type, pool_id, account, amount0, amount1, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (height, seq)
			DO UPDATE SET
				event_type = EXCLUDED.event_type,
				pool_id = EXCLUDED.pool_id,
				account = EXCLUDED.account,
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1
		`,
			int64(e.Height),
			i,
			e.Type,
			int64(e.PoolID),
			e.Account,
			int64(e.Amount0),
			int64(e.Amount1),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertPools inserts or updates pool snapshots.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range pools {
		batch.Queue(`
			INSERT INTO pools (
				pool_id, name, creator, asset0, asset1, total0, total1,
				swapped0, swapped1, duration, start_at, end_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
			ON CONFLICT (pool_id)
			DO UPDATE SET
				swapped0 = EXCLUDED.swapped0,
				swapped1 = EXCLUDED.swapped1,
				updated_at = now()
		`,
			int64(p.ID),
			p.Name,
			p.Creator,
			int64(p.Asset0),
			int64(p.Asset1),
			int64(p.Total0),
			int64(p.Total1),
			int64(p.Swapped0),
			int64(p.Swapped1),
			int64(p.Duration),
			int64(p.StartAt),
			int64(p.EndAt),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSwapRecords inserts or updates per-buyer swap records.
func (s *Store) UpsertSwapRecords(ctx context.Context, records []model.SwapRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO swap_records (
				pool_id, buyer, amount0, amount1, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (pool_id, buyer)
			DO UPDATE SET
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1,
				updated_at = now()
		`,
			int64(r.PoolID),
			r.Buyer,
			int64(r.Amount0),
			int64(r.Amount1),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last processed height for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var height uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_height FROM replay_state WHERE name=$1`, name)
	if err := row.Scan(&height); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return height, true, nil
}

// SaveState upserts the last processed height for a name.
func (s *Store) SaveState(ctx context.Context, name string, height uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO replay_state (name, last_processed_height, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_height = EXCLUDED.last_processed_height, updated_at = now()
	`, name, height)
	return err
}
