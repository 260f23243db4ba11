package events

// FieldType selects the base field of a field-tower precompile
type FieldType uint8

const (
	// FieldBn254 is the BN254 base field
	FieldBn254 FieldType = iota + 1

	// FieldBls12381 is the BLS12-381 base field
	FieldBls12381
)

// String returns the name of the field
func (f FieldType) String() string {
	switch f {
	case FieldBn254:
		return "bn254"
	case FieldBls12381:
		return "bls12381"
	default:
		return "unknown"
	}
}

// FieldOperation is the arithmetic performed by a field precompile
type FieldOperation uint8

const (
	FieldAdd FieldOperation = iota
	FieldSub
	FieldMul
)

// String returns the name of the operation
func (op FieldOperation) String() string {
	switch op {
	case FieldAdd:
		return "add"
	case FieldSub:
		return "sub"
	case FieldMul:
		return "mul"
	default:
		return "unknown"
	}
}

// SyscallEvent records one dispatched syscall
type SyscallEvent struct {
	LookupID uint64
	Shard    uint32
	Channel  uint32
	Clk      uint32
	Syscall  uint32
	Arg1     uint32
	Arg2     uint32
}

// KeccakPermuteEvent records one Keccak-f[1600] invocation
type KeccakPermuteEvent struct {
	LookupID          uint64
	Shard             uint32
	Channel           uint32
	Clk               uint32
	PreState          [25]uint64
	PostState         [25]uint64
	StateReadRecords  []MemoryRecord
	StateWriteRecords []MemoryRecord
	StateAddr         uint32
	LocalMemAccess    []LocalMemoryAccess
}

// Fp2MulEvent records one field-tower multiplication x <- x * y
type Fp2MulEvent struct {
	LookupID       uint64
	Shard          uint32
	Channel        uint32
	Clk            uint32
	Syscall        uint32
	XPtr           uint32
	X              []uint32
	YPtr           uint32
	Y              []uint32
	XMemoryRecords []MemoryRecord
	YMemoryRecords []MemoryRecord
	LocalMemAccess []LocalMemoryAccess
}

// Fp2AddSubEvent records one field-tower addition or subtraction x <- x op y
type Fp2AddSubEvent struct {
	LookupID       uint64
	Shard          uint32
	Channel        uint32
	Clk            uint32
	Syscall        uint32
	Op             FieldOperation
	XPtr           uint32
	X              []uint32
	YPtr           uint32
	Y              []uint32
	XMemoryRecords []MemoryRecord
	YMemoryRecords []MemoryRecord
	LocalMemAccess []LocalMemoryAccess
}

// FpOpEvent records one base-field operation x <- x op y
type FpOpEvent struct {
	LookupID       uint64
	Shard          uint32
	Channel        uint32
	Clk            uint32
	Syscall        uint32
	Op             FieldOperation
	XPtr           uint32
	X              []uint32
	YPtr           uint32
	Y              []uint32
	XMemoryRecords []MemoryRecord
	YMemoryRecords []MemoryRecord
	LocalMemAccess []LocalMemoryAccess
}
