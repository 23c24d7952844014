package storage

import "fixedswap/internal/model"

// Storage defines a sink for emitted events.
type Storage interface {
	PutEventBatch(events []model.EventRecord) error
}
