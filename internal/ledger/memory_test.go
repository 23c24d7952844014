package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestReserveAndUnreserve(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 100)

	if err := l.Reserve(1, "alice", 60); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if got := l.FreeBalance(1, "alice"); got != 40 {
		t.Fatalf("free balance mismatch: got %d, want 40", got)
	}
	if got := l.ReservedBalance(1, "alice"); got != 60 {
		t.Fatalf("reserved balance mismatch: got %d, want 60", got)
	}

	if err := l.Unreserve(1, "alice", 25); err != nil {
		t.Fatalf("unreserve failed: %v", err)
	}
	if got := l.FreeBalance(1, "alice"); got != 65 {
		t.Fatalf("free balance mismatch: got %d, want 65", got)
	}
	if got := l.TotalBalance(1, "alice"); got != 100 {
		t.Fatalf("total balance mismatch: got %d, want 100", got)
	}
}

func TestDepositClampsAtMax(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", math.MaxUint64)
	l.Deposit(1, "alice", 1)

	if got := l.FreeBalance(1, "alice"); got != math.MaxUint64 {
		t.Fatalf("deposit should clamp at max, got %d", got)
	}
}

func TestReserveInsufficient(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 10)

	if err := l.Reserve(1, "alice", 11); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := l.FreeBalance(1, "alice"); got != 10 {
		t.Fatalf("balance should be untouched: got %d", got)
	}
}

func TestUnreserveInsufficient(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 100)
	if err := l.Reserve(1, "alice", 30); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := l.Unreserve(1, "alice", 31); !errors.Is(err, ErrInsufficientReserved) {
		t.Fatalf("expected ErrInsufficientReserved, got %v", err)
	}
	if got := l.ReservedBalance(1, "alice"); got != 30 {
		t.Fatalf("reserved should be untouched: got %d", got)
	}
}

func TestTransfer(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 100)

	if err := l.Transfer(1, "alice", "bob", 40); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if got := l.FreeBalance(1, "alice"); got != 60 {
		t.Fatalf("sender balance mismatch: got %d, want 60", got)
	}
	if got := l.FreeBalance(1, "bob"); got != 40 {
		t.Fatalf("receiver balance mismatch: got %d, want 40", got)
	}
}

func TestTransferInsufficient(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 10)

	if err := l.Transfer(1, "alice", "bob", 11); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := l.FreeBalance(1, "bob"); got != 0 {
		t.Fatalf("receiver should have nothing: got %d", got)
	}
}

func TestTransferToSelf(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 10)

	if err := l.Transfer(1, "alice", "alice", 5); err != nil {
		t.Fatalf("self transfer failed: %v", err)
	}
	if got := l.FreeBalance(1, "alice"); got != 10 {
		t.Fatalf("balance should be untouched: got %d", got)
	}
}

func TestReservedNotTransferable(t *testing.T) {
	l := NewMemoryLedger()
	l.Deposit(1, "alice", 100)
	if err := l.Reserve(1, "alice", 100); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := l.Transfer(1, "alice", "bob", 1); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("reserved funds must not be transferable, got %v", err)
	}
}
