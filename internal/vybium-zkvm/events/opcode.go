// Package events defines the records the executor emits for arithmetization
package events

// ByteOpcode identifies a primitive byte operation served by the byte table
type ByteOpcode uint8

// Byte operations, in lookup table order
const (
	// ByteAND is bitwise and
	ByteAND ByteOpcode = iota

	// ByteOR is bitwise or
	ByteOR

	// ByteXOR is bitwise xor
	ByteXOR

	// ByteSLL shifts b left by c mod 8, truncated to a byte
	ByteSLL

	// ByteU8Range asserts both inputs are bytes
	ByteU8Range

	// ByteShrCarry shifts b right by c mod 8 and returns the shifted-out bits
	ByteShrCarry

	// ByteLTU is unsigned less-than
	ByteLTU

	// ByteMSB extracts the most significant bit of b
	ByteMSB

	// ByteU16Range asserts (b << 8) + c is a 16-bit value
	ByteU16Range
)

// NumByteOps is the number of byte opcodes
const NumByteOps = 9

// AllByteOpcodes returns every byte opcode in table order
func AllByteOpcodes() []ByteOpcode {
	return []ByteOpcode{
		ByteAND,
		ByteOR,
		ByteXOR,
		ByteSLL,
		ByteU8Range,
		ByteShrCarry,
		ByteLTU,
		ByteMSB,
		ByteU16Range,
	}
}

// String returns the name of the opcode
func (op ByteOpcode) String() string {
	switch op {
	case ByteAND:
		return "AND"
	case ByteOR:
		return "OR"
	case ByteXOR:
		return "XOR"
	case ByteSLL:
		return "SLL"
	case ByteU8Range:
		return "U8Range"
	case ByteShrCarry:
		return "ShrCarry"
	case ByteLTU:
		return "LTU"
	case ByteMSB:
		return "MSB"
	case ByteU16Range:
		return "U16Range"
	default:
		return "Unknown"
	}
}

// ByteLookupEvent is a single query against the byte table.
// A1 and A2 are the outputs; B and C the inputs.
type ByteLookupEvent struct {
	Shard   uint32
	Channel uint32
	Opcode  ByteOpcode
	A1      uint32
	A2      uint32
	B       uint32
	C       uint32
}

// NewByteLookupEvent creates a byte lookup event
func NewByteLookupEvent(shard, channel uint32, opcode ByteOpcode, a1, a2, b, c uint32) ByteLookupEvent {
	return ByteLookupEvent{
		Shard:   shard,
		Channel: channel,
		Opcode:  opcode,
		A1:      a1,
		A2:      a2,
		B:       b,
		C:       c,
	}
}
