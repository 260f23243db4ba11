package events

import "fmt"

// MemoryAccessKind distinguishes reads from writes
type MemoryAccessKind uint8

// Access kinds share the RAM table encoding: 0=WRITE, 1=READ
const (
	MemoryWrite MemoryAccessKind = 0
	MemoryRead  MemoryAccessKind = 1
)

// String returns the name of the access kind
func (k MemoryAccessKind) String() string {
	switch k {
	case MemoryWrite:
		return "write"
	case MemoryRead:
		return "read"
	default:
		return "unknown"
	}
}

// MemoryCell is the last access stamp of a word: its value and when it was
// touched. Untouched memory is the zero cell.
type MemoryCell struct {
	Value     uint32
	Shard     uint32
	Timestamp uint32
}

// MemoryRecord is the access record of one word by one read or write.
// For reads PrevValue equals Value.
type MemoryRecord struct {
	Addr          uint32
	Kind          MemoryAccessKind
	Value         uint32
	PrevValue     uint32
	Shard         uint32
	Channel       uint32
	Timestamp     uint32
	PrevShard     uint32
	PrevTimestamp uint32
}

// Cell returns the state the record leaves behind
func (r MemoryRecord) Cell() MemoryCell {
	return MemoryCell{Value: r.Value, Shard: r.Shard, Timestamp: r.Timestamp}
}

// PrevCell returns the state the record observed
func (r MemoryRecord) PrevCell() MemoryCell {
	return MemoryCell{Value: r.PrevValue, Shard: r.PrevShard, Timestamp: r.PrevTimestamp}
}

// String returns a compact description of the record
func (r MemoryRecord) String() string {
	return fmt.Sprintf("%s@0x%08x [%d -> %d] shard=%d clk=%d (prev shard=%d clk=%d)",
		r.Kind, r.Addr, r.PrevValue, r.Value, r.Shard, r.Timestamp, r.PrevShard, r.PrevTimestamp)
}

// LocalMemoryAccess is the reconciled access of one address within one
// logical operation. Initial is the cell before the first access, Final
// the cell after the last one.
type LocalMemoryAccess struct {
	Addr    uint32
	Initial MemoryCell
	Final   MemoryCell
}
