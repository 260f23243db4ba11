package vybiumzkvm

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/syscalls"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// Config represents the configuration of the trace generator
type Config = utils.Config

// ExecutionRecord is the event log of one shard
type ExecutionRecord = events.ExecutionRecord

// MemoryRecord is one recorded memory access
type MemoryRecord = events.MemoryRecord

// LocalMemoryAccess is the reconciled first and last state of one address
type LocalMemoryAccess = events.LocalMemoryAccess

// ByteLookupEvent is a single query against the byte table
type ByteLookupEvent = events.ByteLookupEvent

// ByteOpcode identifies a byte table operation
type ByteOpcode = events.ByteOpcode

// Byte table operations
const (
	ByteAND      = events.ByteAND
	ByteOR       = events.ByteOR
	ByteXOR      = events.ByteXOR
	ByteSLL      = events.ByteSLL
	ByteU8Range  = events.ByteU8Range
	ByteShrCarry = events.ByteShrCarry
	ByteLTU      = events.ByteLTU
	ByteMSB      = events.ByteMSB
	ByteU16Range = events.ByteU16Range
)

// SyscallCode identifies a precompile
type SyscallCode = syscalls.SyscallCode

// Precompile syscall codes
const (
	KeccakPermute  = syscalls.KeccakPermute
	Bls12381FpAdd  = syscalls.Bls12381FpAdd
	Bls12381FpSub  = syscalls.Bls12381FpSub
	Bls12381FpMul  = syscalls.Bls12381FpMul
	Bls12381Fp2Add = syscalls.Bls12381Fp2Add
	Bls12381Fp2Sub = syscalls.Bls12381Fp2Sub
	Bls12381Fp2Mul = syscalls.Bls12381Fp2Mul
	Bn254FpAdd     = syscalls.Bn254FpAdd
	Bn254FpSub     = syscalls.Bn254FpSub
	Bn254FpMul     = syscalls.Bn254FpMul
	Bn254Fp2Add    = syscalls.Bn254Fp2Add
	Bn254Fp2Sub    = syscalls.Bn254Fp2Sub
	Bn254Fp2Mul    = syscalls.Bn254Fp2Mul
)

// CyclesPerInstruction is the clock step between two instructions
const CyclesPerInstruction = utils.CyclesPerInstruction

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// ParseSyscallCode returns the code of a syscall name such as "bn254_fp2_mul"
func ParseSyscallCode(name string) (SyscallCode, error) {
	return syscalls.ParseSyscallCode(name)
}
