package vybiumzkvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T) Executor {
	t.Helper()
	exec, err := NewExecutor(DefaultConfig(), nil)
	require.NoError(t, err)
	return exec
}

func TestNewExecutor(t *testing.T) {
	exec := newTestExecutor(t)
	require.Equal(t, uint32(0), exec.Clock())
	require.NoError(t, exec.Err())

	_, err := NewExecutor(DefaultConfig().WithShard(0), nil)
	require.ErrorIs(t, err, &VMError{Code: ErrInvalidConfig})
}

func TestExecutorKeccak(t *testing.T) {
	exec := newTestExecutor(t)
	require.NoError(t, exec.LoadMemory(0x1000, make([]uint32, 50)))

	_, ok, err := exec.Syscall(KeccakPermute, 0x1000, 0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, uint32(1), exec.Clock())

	// Keccak-f of the zero state
	words := exec.ReadMemory(0x1000, 2)
	require.Equal(t, []uint32{0x40E1DDE7, 0xF1258F79}, words)
	require.Empty(t, exec.ReadMemory(0x1000, 0))
	require.Empty(t, exec.ReadMemory(0x1000, -1))

	record, err := exec.Finalize()
	require.NoError(t, err)
	require.Len(t, record.KeccakPermuteEvents, 1)
	require.Len(t, record.SyscallEvents, 1)
	require.Empty(t, record.MemoryAccesses)
}

func TestExecutorStep(t *testing.T) {
	tests := []struct {
		name    string
		cycles  uint32
		wantErr bool
	}{
		{"back to back", 0, true},
		{"one instruction apart", CyclesPerInstruction, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newTestExecutor(t)
			require.NoError(t, exec.LoadMemory(0x1000, make([]uint32, 50)))

			_, _, err := exec.Syscall(KeccakPermute, 0x1000, 0)
			require.NoError(t, err)
			exec.Step(tt.cycles)
			require.Equal(t, 1+tt.cycles, exec.Clock())
			_, _, err = exec.Syscall(KeccakPermute, 0x1000, 0)
			require.NoError(t, err)

			record, err := exec.Finalize()
			require.NoError(t, err)

			_, err = BuildMemoryTable(record)
			if tt.wantErr {
				require.ErrorIs(t, err, &VMError{Code: ErrMemoryInconsistent})
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestExecutorAbort(t *testing.T) {
	exec := newTestExecutor(t)

	_, _, err := exec.Syscall(SyscallCode(0x77), 0, 0)
	require.ErrorIs(t, err, &VMError{Code: ErrUnknownSyscall})
	require.ErrorIs(t, exec.Err(), &VMError{Code: ErrUnknownSyscall})

	_, _, err = exec.Syscall(Bn254Fp2Mul, 0x1000, 0x2000)
	require.ErrorIs(t, err, &VMError{Code: ErrAborted})

	_, err = exec.Finalize()
	require.ErrorIs(t, err, &VMError{Code: ErrAborted})
}

func TestExecutorErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		code       SyscallCode
		arg1, arg2 uint32
		want       ErrorCode
	}{
		{"misaligned keccak state", KeccakPermute, 0x1002, 0, ErrAlignmentFault},
		{"keccak second argument", KeccakPermute, 0x1000, 4, ErrInvalidInput},
		{"misaligned fp2 operand", Bls12381Fp2Mul, 0x1000, 0x2001, ErrAlignmentFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newTestExecutor(t)
			_, _, err := exec.Syscall(tt.code, tt.arg1, tt.arg2)

			var vmErr *VMError
			require.ErrorAs(t, err, &vmErr)
			require.Equal(t, tt.want, vmErr.Code)
		})
	}
}

func TestExecutorByteLookups(t *testing.T) {
	exec := newTestExecutor(t)

	first := exec.LookupByte(ByteShrCarry, 0xAB, 0x0F)
	require.Equal(t, uint32(0x01), first.A1)
	require.Equal(t, uint32(0x2B), first.A2)
	require.Equal(t, uint32(0), first.Channel)

	exec.AdvanceChannel()
	second := exec.LookupByte(ByteShrCarry, 0xAB, 0x0F)
	require.Equal(t, uint32(1), second.Channel)

	record, err := exec.Finalize()
	require.NoError(t, err)
	require.Len(t, record.ByteLookupEvents, 2)

	m, err := ByteMultiplicities(record, DefaultConfig().ByteLookupChannels)
	require.NoError(t, err)
	require.Equal(t, uint32(1), m.Count(0xAB0F, 0, ByteShrCarry))
	require.Equal(t, uint32(1), m.Count(0xAB0F, 1, ByteShrCarry))
}

func TestByteTable(t *testing.T) {
	table, err := GenerateByteTable(DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 65536, table.Height())

	root, err := CommitByteTable(table)
	require.NoError(t, err)
	require.NotEmpty(t, root)

	again, err := CommitByteTable(table)
	require.NoError(t, err)
	require.Equal(t, root, again)
}

func TestParseSyscallCode(t *testing.T) {
	code, err := ParseSyscallCode("bn254_fp2_mul")
	require.NoError(t, err)
	require.Equal(t, Bn254Fp2Mul, code)
}

func TestBuildMemoryTable(t *testing.T) {
	exec := newTestExecutor(t)
	_, _, err := exec.Syscall(Bls12381Fp2Add, 0x1000, 0x2000)
	require.NoError(t, err)

	record, err := exec.Finalize()
	require.NoError(t, err)

	mt, err := BuildMemoryTable(record)
	require.NoError(t, err)
	require.Equal(t, 48, mt.GetHeight())
	require.Equal(t, 64, mt.GetPaddedHeight())

	record.MemoryAccesses = append(record.MemoryAccesses, record.Bls12381Fp2AddSubEvents[0].LocalMemAccess[0])
	_, err = BuildMemoryTable(record)
	require.ErrorIs(t, err, &VMError{Code: ErrMemoryInconsistent})
}
