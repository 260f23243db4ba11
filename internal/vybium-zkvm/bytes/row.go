// Package bytes generates the preprocessed byte operation table and the
// lookup events that query it
package bytes

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
)

// NumRows is the height of the byte table: one row per (b, c) byte pair
const NumRows = 1 << 16

// NumPreprocessedCols is the width of the preprocessed byte table
const NumPreprocessedCols = 11

// Preprocessed column indices
const (
	ColB = iota
	ColC
	ColAnd
	ColOr
	ColXor
	ColSll
	ColShr
	ColShrCarry
	ColLtu
	ColMsb
	ColValueU16
)

// Row holds the results of every byte operation for one input pair
type Row struct {
	B        uint8
	C        uint8
	And      uint8
	Or       uint8
	Xor      uint8
	Sll      uint8
	Shr      uint8
	ShrCarry uint8
	Ltu      uint8
	Msb      uint8
	ValueU16 uint16
}

// ShrCarry shifts b right by c mod 8 and returns the shifted value with the
// bits shifted out, so that b == shr<<(c&7) | carry
func ShrCarry(b, c uint8) (shr, carry uint8) {
	s := c & 7
	if s == 0 {
		return b, 0
	}
	return b >> s, b & (1<<s - 1)
}

// RowIndex returns the table row of the pair (b, c)
func RowIndex(b, c uint8) int {
	return int(b)<<8 | int(c)
}

// ComputeRow evaluates every byte operation on (b, c)
func ComputeRow(b, c uint8) Row {
	shr, carry := ShrCarry(b, c)
	return Row{
		B:        b,
		C:        c,
		And:      b & c,
		Or:       b | c,
		Xor:      b ^ c,
		Sll:      b << (c & 7),
		Shr:      shr,
		ShrCarry: carry,
		Ltu:      boolByte(b < c),
		Msb:      b >> 7,
		ValueU16: uint16(b)<<8 | uint16(c),
	}
}

// Columns returns the row in preprocessed column order
func (r Row) Columns() [NumPreprocessedCols]uint64 {
	return [NumPreprocessedCols]uint64{
		ColB:        uint64(r.B),
		ColC:        uint64(r.C),
		ColAnd:      uint64(r.And),
		ColOr:       uint64(r.Or),
		ColXor:      uint64(r.Xor),
		ColSll:      uint64(r.Sll),
		ColShr:      uint64(r.Shr),
		ColShrCarry: uint64(r.ShrCarry),
		ColLtu:      uint64(r.Ltu),
		ColMsb:      uint64(r.Msb),
		ColValueU16: uint64(r.ValueU16),
	}
}

// LookupEvent returns the event that queries opcode on (b, c) through
// channel. MSB ignores c, U16Range carries the packed value as its output
// and U8Range has no output.
func (r Row) LookupEvent(shard, channel uint32, opcode events.ByteOpcode) events.ByteLookupEvent {
	b, c := uint32(r.B), uint32(r.C)
	switch opcode {
	case events.ByteAND:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.And), 0, b, c)
	case events.ByteOR:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.Or), 0, b, c)
	case events.ByteXOR:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.Xor), 0, b, c)
	case events.ByteSLL:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.Sll), 0, b, c)
	case events.ByteU8Range:
		return events.NewByteLookupEvent(shard, channel, opcode, 0, 0, b, c)
	case events.ByteShrCarry:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.Shr), uint32(r.ShrCarry), b, c)
	case events.ByteLTU:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.Ltu), 0, b, c)
	case events.ByteMSB:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.Msb), 0, b, 0)
	default:
		return events.NewByteLookupEvent(shard, channel, opcode, uint32(r.ValueU16), 0, 0, 0)
	}
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
