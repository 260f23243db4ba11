package vybiumzkvm

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/memtable"
)

// MemoryTable is the memory consistency table of a shard
type MemoryTable = memtable.MemoryTable

// BuildMemoryTable checks that every address's accesses in record chain
// and lays them out as a padded table
func BuildMemoryTable(record *ExecutionRecord) (*MemoryTable, error) {
	mt, err := memtable.BuildMemoryTable(record)
	if err != nil {
		return nil, &VMError{Code: ErrMemoryInconsistent, Message: "memory accesses do not balance", Cause: err}
	}
	return mt, nil
}
