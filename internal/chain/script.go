package chain

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"fixedswap/internal/model"
)

// ReadScript reads a block script from a JSONL file, one Op per line. Ops must
// be ordered by non-decreasing height; ops sharing a height keep file order.
func ReadScript(path string) ([]model.Op, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close()

	var ops []model.Op
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var op model.Op
		if err := json.Unmarshal(raw, &op); err != nil {
			return nil, fmt.Errorf("parse script line %d: %w", line, err)
		}
		if op.Kind != model.OpCreate && op.Kind != model.OpSwap {
			return nil, fmt.Errorf("script line %d: unknown op kind %q", line, op.Kind)
		}
		if op.Account == "" {
			return nil, fmt.Errorf("script line %d: account is required", line)
		}
		if len(ops) > 0 && op.Height < ops[len(ops)-1].Height {
			return nil, fmt.Errorf("script line %d: height %d is lower than previous op", line, op.Height)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ops, nil
}
