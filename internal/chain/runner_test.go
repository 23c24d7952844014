package chain

import (
	"context"
	"errors"
	"testing"

	"fixedswap/internal/ledger"
	"fixedswap/internal/model"
	"fixedswap/internal/swap"
)

type captureStorage struct {
	events []model.EventRecord
}

func (c *captureStorage) PutEventBatch(events []model.EventRecord) error {
	c.events = append(c.events, events...)
	return nil
}

type memoryState struct {
	height uint64
	loaded bool
	saved  []uint64
}

func (s *memoryState) Load(ctx context.Context) (uint64, bool, error) {
	return s.height, s.loaded, nil
}

func (s *memoryState) Save(ctx context.Context, height uint64) error {
	s.saved = append(s.saved, height)
	return nil
}

const scenarioScript = `{"height":0,"kind":"create","account":"creator","name":"swap","asset0":1,"asset1":2,"total0":100,"total1":200,"duration":50}
{"height":1,"kind":"swap","account":"buyer","pool_id":0,"amount1":20}
`

func newScenarioModule() (*swap.Module, *ledger.MemoryLedger) {
	l := ledger.NewMemoryLedger()
	l.Deposit(1, "creator", 100000)
	l.Deposit(2, "buyer", 100000)
	return swap.NewModule(swap.NewStore(), l), l
}

func TestRunnerScenario(t *testing.T) {
	module, l := newScenarioModule()
	sink := &captureStorage{}
	state := &memoryState{}

	runner := NewRunner(RunConfig{
		ScriptPath: writeScript(t, scenarioScript),
		StateStore: state,
	}, module, sink, nil, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(sink.events) != 3 {
		t.Fatalf("expected 3 events, got %+v", sink.events)
	}
	if sink.events[0].Type != model.EventPoolCreated || sink.events[0].Height != 0 {
		t.Fatalf("first event mismatch: %+v", sink.events[0])
	}
	if sink.events[1].Type != model.EventPoolSwapped || sink.events[1].Height != 1 {
		t.Fatalf("second event mismatch: %+v", sink.events[1])
	}
	if sink.events[2].Type != model.EventPoolClosed || sink.events[2].Height != 50 {
		t.Fatalf("third event mismatch: %+v", sink.events[2])
	}

	// End state matches the fixed-rate settlement: buyer bought 10 of asset0
	// for 20 of asset1, the remaining 90 of escrow went back to the creator.
	if got := l.ReservedBalance(1, "creator"); got != 0 {
		t.Fatalf("creator reserved mismatch: got %d, want 0", got)
	}
	if got := l.FreeBalance(1, "creator"); got != 99990 {
		t.Fatalf("creator asset0 mismatch: got %d, want 99990", got)
	}
	if got := l.FreeBalance(1, "buyer"); got != 10 {
		t.Fatalf("buyer asset0 mismatch: got %d, want 10", got)
	}
	if got := l.FreeBalance(2, "creator"); got != 20 {
		t.Fatalf("creator asset1 mismatch: got %d, want 20", got)
	}

	if len(state.saved) != 1 || state.saved[0] != 50 {
		t.Fatalf("state save mismatch: %v", state.saved)
	}
	if got := module.Store().PendingExpiries(); got != 0 {
		t.Fatalf("all pools should be finalized, got %d pending", got)
	}
}

func TestRunnerSkipsRejectedOps(t *testing.T) {
	module, _ := newScenarioModule()
	sink := &captureStorage{}

	script := `{"height":0,"kind":"swap","account":"buyer","pool_id":7,"amount1":20}
{"height":0,"kind":"create","account":"creator","name":"swap","asset0":1,"asset1":2,"total0":100,"total1":200,"duration":5}
`
	runner := NewRunner(RunConfig{ScriptPath: writeScript(t, script)}, module, sink, nil, nil)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// The swap against the unknown pool is dropped; the create and the close
	// still go through.
	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %+v", sink.events)
	}
	if sink.events[0].Type != model.EventPoolCreated {
		t.Fatalf("first event mismatch: %+v", sink.events[0])
	}
	if sink.events[1].Type != model.EventPoolClosed || sink.events[1].Height != 5 {
		t.Fatalf("second event mismatch: %+v", sink.events[1])
	}
}

func TestRunnerResumeSkipsEmittedEvents(t *testing.T) {
	module, _ := newScenarioModule()
	sink := &captureStorage{}
	state := &memoryState{height: 1, loaded: true}

	runner := NewRunner(RunConfig{
		ScriptPath: writeScript(t, scenarioScript),
		StateStore: state,
	}, module, sink, nil, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// State is rebuilt from block 0, but only events past the checkpoint are
	// re-emitted.
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %+v", sink.events)
	}
	if sink.events[0].Type != model.EventPoolClosed || sink.events[0].Height != 50 {
		t.Fatalf("event mismatch: %+v", sink.events[0])
	}
}

// brokenUnreserveLedger fails every unreserve, simulating a reservation that
// vanished underneath the module.
type brokenUnreserveLedger struct {
	*ledger.MemoryLedger
}

func (l *brokenUnreserveLedger) Unreserve(asset uint64, account string, amount uint64) error {
	return ledger.ErrInsufficientReserved
}

func TestRunnerHaltsOnFinalizeFailure(t *testing.T) {
	base := ledger.NewMemoryLedger()
	base.Deposit(1, "creator", 100000)
	module := swap.NewModule(swap.NewStore(), &brokenUnreserveLedger{MemoryLedger: base})
	sink := &captureStorage{}

	script := `{"height":0,"kind":"create","account":"creator","name":"swap","asset0":1,"asset1":2,"total0":100,"total1":200,"duration":5}
`
	runner := NewRunner(RunConfig{ScriptPath: writeScript(t, script)}, module, sink, nil, nil)

	err := runner.Run(context.Background())
	if !errors.Is(err, ledger.ErrInsufficientReserved) {
		t.Fatalf("run should halt on the finalize failure, got %v", err)
	}

	// Only the create made it out before the halt.
	if len(sink.events) != 1 || sink.events[0].Type != model.EventPoolCreated {
		t.Fatalf("events mismatch: %+v", sink.events)
	}
}

func TestRunnerEndHeightCap(t *testing.T) {
	module, l := newScenarioModule()
	sink := &captureStorage{}

	runner := NewRunner(RunConfig{
		ScriptPath: writeScript(t, scenarioScript),
		EndHeight:  10,
	}, module, sink, nil, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events before the cap, got %+v", sink.events)
	}
	if got := module.Store().PendingExpiries(); got != 1 {
		t.Fatalf("pool should still be open, got %d pending", got)
	}
	if got := l.ReservedBalance(1, "creator"); got != 90 {
		t.Fatalf("escrow should still be held: got %d", got)
	}
}
