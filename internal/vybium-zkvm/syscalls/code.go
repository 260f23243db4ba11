// Package syscalls dispatches precompile syscalls of the zkVM executor
package syscalls

import (
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
)

// SyscallCode identifies a precompile. The low byte is the syscall number;
// the second byte is 1 for precompiles that run in their own table.
type SyscallCode uint32

const (
	// ========== Hashing ==========

	// KeccakPermute applies Keccak-f[1600] to the state at arg1
	KeccakPermute SyscallCode = 0x00_01_01_09

	// ========== BLS12-381 base field and quadratic extension ==========

	// Bls12381FpAdd computes x <- x + y over the BLS12-381 base field
	Bls12381FpAdd SyscallCode = 0x00_01_01_20
	// Bls12381FpSub computes x <- x - y
	Bls12381FpSub SyscallCode = 0x00_01_01_21
	// Bls12381FpMul computes x <- x * y
	Bls12381FpMul SyscallCode = 0x00_01_01_22
	// Bls12381Fp2Add computes x <- x + y over Fp2
	Bls12381Fp2Add SyscallCode = 0x00_01_01_23
	// Bls12381Fp2Sub computes x <- x - y over Fp2
	Bls12381Fp2Sub SyscallCode = 0x00_01_01_24
	// Bls12381Fp2Mul computes x <- x * y over Fp2
	Bls12381Fp2Mul SyscallCode = 0x00_01_01_25

	// ========== BN254 base field and quadratic extension ==========

	// Bn254FpAdd computes x <- x + y over the BN254 base field
	Bn254FpAdd SyscallCode = 0x00_01_01_26
	// Bn254FpSub computes x <- x - y
	Bn254FpSub SyscallCode = 0x00_01_01_27
	// Bn254FpMul computes x <- x * y
	Bn254FpMul SyscallCode = 0x00_01_01_28
	// Bn254Fp2Add computes x <- x + y over Fp2
	Bn254Fp2Add SyscallCode = 0x00_01_01_29
	// Bn254Fp2Sub computes x <- x - y over Fp2
	Bn254Fp2Sub SyscallCode = 0x00_01_01_2A
	// Bn254Fp2Mul computes x <- x * y over Fp2
	Bn254Fp2Mul SyscallCode = 0x00_01_01_2B
)

// SyscallInfo provides metadata about a syscall
type SyscallInfo struct {
	Code  SyscallCode
	Name  string
	Field events.FieldType // zero for non-field precompiles
	Op    events.FieldOperation
	Fp2   bool // operates on quadratic extension elements
}

// AllSyscalls describes every syscall known to the executor
var AllSyscalls = map[SyscallCode]SyscallInfo{
	KeccakPermute: {KeccakPermute, "keccak_permute", 0, 0, false},

	Bls12381FpAdd:  {Bls12381FpAdd, "bls12381_fp_add", events.FieldBls12381, events.FieldAdd, false},
	Bls12381FpSub:  {Bls12381FpSub, "bls12381_fp_sub", events.FieldBls12381, events.FieldSub, false},
	Bls12381FpMul:  {Bls12381FpMul, "bls12381_fp_mul", events.FieldBls12381, events.FieldMul, false},
	Bls12381Fp2Add: {Bls12381Fp2Add, "bls12381_fp2_add", events.FieldBls12381, events.FieldAdd, true},
	Bls12381Fp2Sub: {Bls12381Fp2Sub, "bls12381_fp2_sub", events.FieldBls12381, events.FieldSub, true},
	Bls12381Fp2Mul: {Bls12381Fp2Mul, "bls12381_fp2_mul", events.FieldBls12381, events.FieldMul, true},

	Bn254FpAdd:  {Bn254FpAdd, "bn254_fp_add", events.FieldBn254, events.FieldAdd, false},
	Bn254FpSub:  {Bn254FpSub, "bn254_fp_sub", events.FieldBn254, events.FieldSub, false},
	Bn254FpMul:  {Bn254FpMul, "bn254_fp_mul", events.FieldBn254, events.FieldMul, false},
	Bn254Fp2Add: {Bn254Fp2Add, "bn254_fp2_add", events.FieldBn254, events.FieldAdd, true},
	Bn254Fp2Sub: {Bn254Fp2Sub, "bn254_fp2_sub", events.FieldBn254, events.FieldSub, true},
	Bn254Fp2Mul: {Bn254Fp2Mul, "bn254_fp2_mul", events.FieldBn254, events.FieldMul, true},
}

// String returns the name of the syscall
func (c SyscallCode) String() string {
	if info, ok := AllSyscalls[c]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(0x%08x)", uint32(c))
}

// Info returns metadata about the syscall
func (c SyscallCode) Info() (SyscallInfo, error) {
	info, ok := AllSyscalls[c]
	if !ok {
		return SyscallInfo{}, fmt.Errorf("unknown syscall: 0x%08x", uint32(c))
	}
	return info, nil
}

// ParseSyscallCode returns the code of a syscall name
func ParseSyscallCode(name string) (SyscallCode, error) {
	for code, info := range AllSyscalls {
		if info.Name == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown syscall name %q", name)
}
