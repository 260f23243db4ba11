package bytes

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
)

// MultiplicityTrace counts how often a shard queried each table entry.
// Column channel*NumByteOps + opcode of row i holds the number of lookups
// of that opcode through that channel that land on row i.
type MultiplicityTrace struct {
	Shard    uint32
	Channels uint32
	Counts   []uint32
}

// Width returns the number of multiplicity columns
func (m *MultiplicityTrace) Width() int {
	return int(m.Channels) * NumByteOps
}

// Count returns the multiplicity of opcode through channel at row
func (m *MultiplicityTrace) Count(row int, channel uint32, opcode events.ByteOpcode) uint32 {
	return m.Counts[row*m.Width()+int(channel)*NumByteOps+int(opcode)]
}

// Elements returns the counts as a row-major field matrix
func (m *MultiplicityTrace) Elements() []field.Element {
	values := make([]field.Element, len(m.Counts))
	for i, c := range m.Counts {
		values[i] = field.New(uint64(c))
	}
	return values
}

// NumByteOps is the number of opcodes served per channel
const NumByteOps = events.NumByteOps

// EventRow returns the table row an event looks up. The event must agree
// with the table at that row.
func EventRow(e events.ByteLookupEvent) (int, error) {
	var row int
	switch e.Opcode {
	case events.ByteU16Range:
		if e.A1 > 0xffff {
			return 0, fmt.Errorf("u16 range lookup of %d", e.A1)
		}
		row = int(e.A1)
	default:
		if e.B > 0xff || e.C > 0xff {
			return 0, fmt.Errorf("%s lookup with non-byte inputs b=%d c=%d", e.Opcode, e.B, e.C)
		}
		row = RowIndex(uint8(e.B), uint8(e.C))
	}

	want := ComputeRow(uint8(row>>8), uint8(row)).LookupEvent(e.Shard, e.Channel, e.Opcode)
	if want != e {
		return 0, fmt.Errorf("%s lookup (a1=%d a2=%d b=%d c=%d) disagrees with the byte table", e.Opcode, e.A1, e.A2, e.B, e.C)
	}
	return row, nil
}

// GenerateMultiplicityTrace counts the byte lookups of one shard
func GenerateMultiplicityTrace(shard, channels uint32, lookups []events.ByteLookupEvent) (*MultiplicityTrace, error) {
	if channels == 0 {
		return nil, fmt.Errorf("byte lookup channels must be positive")
	}

	m := &MultiplicityTrace{
		Shard:    shard,
		Channels: channels,
		Counts:   make([]uint32, NumRows*int(channels)*NumByteOps),
	}

	for i, e := range lookups {
		if e.Shard != shard {
			return nil, fmt.Errorf("lookup %d belongs to shard %d, not %d", i, e.Shard, shard)
		}
		if e.Channel >= channels {
			return nil, fmt.Errorf("lookup %d uses channel %d of %d", i, e.Channel, channels)
		}
		if int(e.Opcode) >= NumByteOps {
			return nil, fmt.Errorf("lookup %d has unknown opcode %d", i, e.Opcode)
		}
		row, err := EventRow(e)
		if err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		m.Counts[row*m.Width()+int(e.Channel)*NumByteOps+int(e.Opcode)]++
	}
	return m, nil
}
