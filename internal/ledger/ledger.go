package ledger

import "errors"

var (
	// ErrInsufficientBalance means an account's free balance cannot cover a
	// reserve or transfer.
	ErrInsufficientBalance = errors.New("insufficient free balance")
	// ErrInsufficientReserved means an account's reserved balance cannot cover
	// an unreserve.
	ErrInsufficientReserved = errors.New("insufficient reserved balance")
)

// Ledger is the multi-asset balance-and-reservation collaborator the swap
// module moves funds through. Each mutating call either fully succeeds or
// leaves balances untouched.
type Ledger interface {
	// Reserve moves amount from the account's free balance to its reserved
	// balance for the given asset.
	Reserve(asset uint64, account string, amount uint64) error
	// Unreserve moves amount from the account's reserved balance back to its
	// free balance.
	Unreserve(asset uint64, account string, amount uint64) error
	// Transfer moves amount of the asset between the free balances of two
	// accounts.
	Transfer(asset uint64, from, to string, amount uint64) error
	// FreeBalance returns the account's spendable balance of the asset.
	FreeBalance(asset uint64, account string) uint64
	// ReservedBalance returns the account's reserved balance of the asset.
	ReservedBalance(asset uint64, account string) uint64
}
