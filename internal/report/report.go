package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"go.uber.org/zap"

	"fixedswap/internal/model"
)

// PoolSummary is the folded view of one pool's event history.
type PoolSummary struct {
	PoolID    uint64  `json:"pool_id"`
	Creator   string  `json:"creator,omitempty"`
	CreatedAt uint64  `json:"created_at"`
	SwapCount uint64  `json:"swap_count"`
	Volume0   uint64  `json:"volume0"`
	Volume1   uint64  `json:"volume1"`
	ClosedAt  *uint64 `json:"closed_at,omitempty"`
}

// Builder folds event records into per-pool summaries.
type Builder struct {
	logger    *zap.Logger
	summaries map[uint64]*PoolSummary
}

func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		logger:    logger,
		summaries: make(map[uint64]*PoolSummary),
	}
}

// Add folds one event into the summaries.
func (b *Builder) Add(event model.EventRecord) {
	s, ok := b.summaries[event.PoolID]
	if !ok {
		s = &PoolSummary{PoolID: event.PoolID}
		b.summaries[event.PoolID] = s
	}
	switch event.Type {
	case model.EventPoolCreated:
		s.Creator = event.Account
		s.CreatedAt = event.Height
	case model.EventPoolSwapped:
		s.SwapCount++
		s.Volume0 = clampAdd(s.Volume0, event.Amount0)
		s.Volume1 = clampAdd(s.Volume1, event.Amount1)
	case model.EventPoolClosed:
		closedAt := event.Height
		s.ClosedAt = &closedAt
	default:
		b.logger.Warn("unknown event type", zap.String("type", event.Type))
	}
}

// Summaries returns the folded summaries ordered by pool id.
func (b *Builder) Summaries() []PoolSummary {
	out := make([]PoolSummary, 0, len(b.summaries))
	for _, s := range b.summaries {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PoolID < out[j].PoolID })
	return out
}

// ReadFile folds an events JSONL file into per-pool summaries.
func ReadFile(path string, logger *zap.Logger) ([]PoolSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	builder := NewBuilder(logger)
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var event model.EventRecord
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, fmt.Errorf("parse event line %d: %w", line, err)
		}
		builder.Add(event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return builder.Summaries(), nil
}

func clampAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
