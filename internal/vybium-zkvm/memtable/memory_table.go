// Package memtable builds the memory consistency table of a shard from its
// reconciled memory accesses
package memtable

import (
	"fmt"
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// MemoryTable holds one row per reconciled access
//
// Main columns (8):
//   - Addr: word address
//   - InitialShard, InitialClk, InitialValue: stamp before the first access
//   - FinalShard, FinalClk, FinalValue: stamp after the last access
//   - IsReal: 1 for access rows, 0 for padding
type MemoryTable struct {
	addr         []field.Element
	initialShard []field.Element
	initialClk   []field.Element
	initialValue []field.Element
	finalShard   []field.Element
	finalClk     []field.Element
	finalValue   []field.Element
	isReal       []field.Element

	height       int
	paddedHeight int
}

// NumMainColumns is the width of the memory table
const NumMainColumns = 8

// NewMemoryTable creates an empty memory table
func NewMemoryTable() *MemoryTable {
	return &MemoryTable{}
}

// GetHeight returns the number of access rows
func (mt *MemoryTable) GetHeight() int {
	return mt.height
}

// GetPaddedHeight returns the padded height
func (mt *MemoryTable) GetPaddedHeight() int {
	if mt.paddedHeight > 0 {
		return mt.paddedHeight
	}
	return mt.height
}

// GetMainColumns returns all main columns
func (mt *MemoryTable) GetMainColumns() [][]field.Element {
	return [][]field.Element{
		mt.addr,
		mt.initialShard,
		mt.initialClk,
		mt.initialValue,
		mt.finalShard,
		mt.finalClk,
		mt.finalValue,
		mt.isReal,
	}
}

// AddRow appends one reconciled access
func (mt *MemoryTable) AddRow(access events.LocalMemoryAccess) error {
	if mt.paddedHeight > 0 {
		return fmt.Errorf("cannot add rows to a padded table")
	}

	mt.addr = append(mt.addr, field.New(uint64(access.Addr)))
	mt.initialShard = append(mt.initialShard, field.New(uint64(access.Initial.Shard)))
	mt.initialClk = append(mt.initialClk, field.New(uint64(access.Initial.Timestamp)))
	mt.initialValue = append(mt.initialValue, field.New(uint64(access.Initial.Value)))
	mt.finalShard = append(mt.finalShard, field.New(uint64(access.Final.Shard)))
	mt.finalClk = append(mt.finalClk, field.New(uint64(access.Final.Timestamp)))
	mt.finalValue = append(mt.finalValue, field.New(uint64(access.Final.Value)))
	mt.isReal = append(mt.isReal, field.New(1))

	mt.height++
	return nil
}

// Pad extends the table to targetHeight, a power of two, with copies of
// the last row marked as padding
func (mt *MemoryTable) Pad(targetHeight int) error {
	if targetHeight < mt.height {
		return fmt.Errorf("target height %d is less than current height %d", targetHeight, mt.height)
	}
	if !utils.IsPowerOfTwo(targetHeight) {
		return fmt.Errorf("target height %d is not a power of two", targetHeight)
	}
	if mt.height == 0 {
		return fmt.Errorf("cannot pad empty table")
	}

	last := mt.height - 1
	for i := mt.height; i < targetHeight; i++ {
		mt.addr = append(mt.addr, mt.addr[last])
		mt.initialShard = append(mt.initialShard, mt.initialShard[last])
		mt.initialClk = append(mt.initialClk, mt.initialClk[last])
		mt.initialValue = append(mt.initialValue, mt.initialValue[last])
		mt.finalShard = append(mt.finalShard, mt.finalShard[last])
		mt.finalClk = append(mt.finalClk, mt.finalClk[last])
		mt.finalValue = append(mt.finalValue, mt.finalValue[last])
		mt.isReal = append(mt.isReal, field.New(0))
	}

	mt.paddedHeight = targetHeight
	return nil
}

// CollectAccesses returns every reconciled access of a record: the
// shard-global list followed by the accesses of each precompile event
func CollectAccesses(record *events.ExecutionRecord) []events.LocalMemoryAccess {
	accesses := append([]events.LocalMemoryAccess{}, record.MemoryAccesses...)
	for _, e := range record.KeccakPermuteEvents {
		accesses = append(accesses, e.LocalMemAccess...)
	}
	for _, list := range [][]events.Fp2MulEvent{record.Bn254Fp2MulEvents, record.Bls12381Fp2MulEvents} {
		for _, e := range list {
			accesses = append(accesses, e.LocalMemAccess...)
		}
	}
	for _, list := range [][]events.Fp2AddSubEvent{record.Bn254Fp2AddSubEvents, record.Bls12381Fp2AddSubEvents} {
		for _, e := range list {
			accesses = append(accesses, e.LocalMemAccess...)
		}
	}
	for _, list := range [][]events.FpOpEvent{record.Bn254FpEvents, record.Bls12381FpEvents} {
		for _, e := range list {
			accesses = append(accesses, e.LocalMemAccess...)
		}
	}
	return accesses
}

// CollectRecords returns every memory record held by the precompile events
// of a record
func CollectRecords(record *events.ExecutionRecord) []events.MemoryRecord {
	var records []events.MemoryRecord
	for _, e := range record.KeccakPermuteEvents {
		records = append(records, e.StateReadRecords...)
		records = append(records, e.StateWriteRecords...)
	}
	for _, list := range [][]events.Fp2MulEvent{record.Bn254Fp2MulEvents, record.Bls12381Fp2MulEvents} {
		for _, e := range list {
			records = append(records, e.YMemoryRecords...)
			records = append(records, e.XMemoryRecords...)
		}
	}
	for _, list := range [][]events.Fp2AddSubEvent{record.Bn254Fp2AddSubEvents, record.Bls12381Fp2AddSubEvents} {
		for _, e := range list {
			records = append(records, e.YMemoryRecords...)
			records = append(records, e.XMemoryRecords...)
		}
	}
	for _, list := range [][]events.FpOpEvent{record.Bn254FpEvents, record.Bls12381FpEvents} {
		for _, e := range list {
			records = append(records, e.YMemoryRecords...)
			records = append(records, e.XMemoryRecords...)
		}
	}
	return records
}

// CheckRecords verifies that every record is stamped strictly after the
// state it replaced
func CheckRecords(records []events.MemoryRecord) error {
	for _, r := range records {
		if !stampBefore(r.PrevCell(), r.Cell()) {
			return fmt.Errorf("%s at 0x%08x does not move time forward: %d/%d to %d/%d",
				r.Kind, r.Addr, r.PrevShard, r.PrevTimestamp, r.Shard, r.Timestamp)
		}
	}
	return nil
}

// stampBefore orders memory cells by (shard, timestamp)
func stampBefore(a, b events.MemoryCell) bool {
	if a.Shard != b.Shard {
		return a.Shard < b.Shard
	}
	return a.Timestamp < b.Timestamp
}

// CheckConsistency verifies that the accesses of each address chain: every
// access starts from the state the previous one left, and moves time forward
func CheckConsistency(accesses []events.LocalMemoryAccess) error {
	byAddr := make(map[uint32][]events.LocalMemoryAccess)
	for _, a := range accesses {
		if !stampBefore(a.Initial, a.Final) {
			return fmt.Errorf("access at 0x%08x does not move time forward: %d/%d to %d/%d",
				a.Addr, a.Initial.Shard, a.Initial.Timestamp, a.Final.Shard, a.Final.Timestamp)
		}
		byAddr[a.Addr] = append(byAddr[a.Addr], a)
	}

	for addr, list := range byAddr {
		sort.Slice(list, func(i, j int) bool { return stampBefore(list[i].Initial, list[j].Initial) })
		for i := 1; i < len(list); i++ {
			if list[i].Initial != list[i-1].Final {
				return fmt.Errorf("access chain broken at 0x%08x: access %d starts from %+v, previous ended at %+v",
					addr, i, list[i].Initial, list[i-1].Final)
			}
		}
	}
	return nil
}

// BuildMemoryTable checks the records and accesses of a record and lays the
// accesses out in address then time order, padded to a power of two
func BuildMemoryTable(record *events.ExecutionRecord) (*MemoryTable, error) {
	if err := CheckRecords(CollectRecords(record)); err != nil {
		return nil, err
	}
	accesses := CollectAccesses(record)
	if err := CheckConsistency(accesses); err != nil {
		return nil, err
	}

	sort.Slice(accesses, func(i, j int) bool {
		if accesses[i].Addr != accesses[j].Addr {
			return accesses[i].Addr < accesses[j].Addr
		}
		return stampBefore(accesses[i].Initial, accesses[j].Initial)
	})

	mt := NewMemoryTable()
	for _, a := range accesses {
		if err := mt.AddRow(a); err != nil {
			return nil, err
		}
	}
	if mt.height == 0 {
		return mt, nil
	}

	target := 1
	for target < mt.height {
		target <<= 1
	}
	if err := mt.Pad(target); err != nil {
		return nil, err
	}
	return mt, nil
}
