package ledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"fixedswap/internal/model"
)

// LoadGenesis reads initial balances from a JSONL file, one GenesisBalance
// per line. Blank lines are skipped.
func LoadGenesis(path string) ([]model.GenesisBalance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genesis: %w", err)
	}
	defer file.Close()

	var balances []model.GenesisBalance
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var b model.GenesisBalance
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("parse genesis line %d: %w", line, err)
		}
		if b.Account == "" {
			return nil, fmt.Errorf("genesis line %d: account is required", line)
		}
		balances = append(balances, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	return balances, nil
}

// ApplyGenesis deposits every genesis balance into the ledger.
func (l *MemoryLedger) ApplyGenesis(balances []model.GenesisBalance) {
	for _, b := range balances {
		l.Deposit(b.Asset, b.Account, b.Amount)
	}
}
