package precompiles

import (
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
)

// KeccakStateSize is the number of 64-bit lanes of the permutation state
const KeccakStateSize = 25

// KeccakStateNumWords is the size of the state in 32-bit memory words
const KeccakStateNumWords = KeccakStateSize * 2

// KeccakPermuteSyscall permutes the 1600-bit state stored at arg1 in place.
// Lane i occupies words 2i (low half) and 2i+1 (high half).
type KeccakPermuteSyscall struct{}

// NewKeccakPermuteSyscall creates the permutation precompile
func NewKeccakPermuteSyscall() *KeccakPermuteSyscall {
	return &KeccakPermuteSyscall{}
}

// NumExtraCycles returns the clock cost beyond the syscall instruction
func (s *KeccakPermuteSyscall) NumExtraCycles() uint32 {
	return 1
}

// Execute reads the state, permutes it, writes it back and emits a
// KeccakPermuteEvent
func (s *KeccakPermuteSyscall) Execute(ctx *executor.SyscallContext, arg1, arg2 uint32) (uint32, bool, error) {
	startClk := ctx.Clk
	statePtr := arg1

	if arg2 != 0 {
		return 0, false, &executor.InvalidArgumentError{
			Syscall: ctx.Syscall,
			Arg:     "arg2",
			Value:   arg2,
			Reason:  "keccak permute takes a single pointer",
		}
	}
	if err := executor.CheckAligned(statePtr); err != nil {
		return 0, false, err
	}

	addrs := executor.SliceAddrs(statePtr, KeccakStateNumWords)
	if err := ctx.FlushPending(addrs); err != nil {
		return 0, false, fmt.Errorf("keccak state: %w", err)
	}

	values, readRecords, err := ctx.ReadSlice(statePtr, KeccakStateNumWords)
	if err != nil {
		return 0, false, fmt.Errorf("keccak state read: %w", err)
	}

	var state [KeccakStateSize]uint64
	for i := range state {
		state[i] = uint64(values[2*i]) | uint64(values[2*i+1])<<32
	}
	preState := state

	KeccakF1600(&state)

	// Writes happen one cycle after the reads.
	ctx.AdvanceClock(1)
	out := make([]uint32, KeccakStateNumWords)
	for i, lane := range state {
		out[2*i] = uint32(lane)
		out[2*i+1] = uint32(lane >> 32)
	}

	writeRecords, err := ctx.WriteSlice(statePtr, out)
	if err != nil {
		return 0, false, fmt.Errorf("keccak state write: %w", err)
	}

	local, err := ctx.ReconcileAndDrain(addrs)
	if err != nil {
		return 0, false, fmt.Errorf("keccak state: %w", err)
	}

	ctx.Record().AddKeccakPermuteEvent(events.KeccakPermuteEvent{
		LookupID:          ctx.LookupID,
		Shard:             ctx.Shard(),
		Channel:           ctx.Channel(),
		Clk:               startClk,
		PreState:          preState,
		PostState:         state,
		StateReadRecords:  readRecords,
		StateWriteRecords: writeRecords,
		StateAddr:         statePtr,
		LocalMemAccess:    local,
	})

	return 0, false, nil
}
