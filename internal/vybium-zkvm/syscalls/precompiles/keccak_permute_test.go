package precompiles

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

func newTestState(t *testing.T) *executor.State {
	t.Helper()
	state, err := executor.NewState(utils.DefaultConfig(), nil)
	require.NoError(t, err)
	state.Clk = 100
	return state
}

// legacyKeccak256 is Keccak-256 built on KeccakF1600
func legacyKeccak256(msg []byte) [32]byte {
	const rate = 136

	padded := append([]byte{}, msg...)
	padLen := rate - len(padded)%rate
	pad := make([]byte, padLen)
	pad[0] = 0x01
	pad[padLen-1] |= 0x80
	padded = append(padded, pad...)

	var state [25]uint64
	for off := 0; off < len(padded); off += rate {
		for i := 0; i < rate/8; i++ {
			state[i] ^= binary.LittleEndian.Uint64(padded[off+8*i:])
		}
		KeccakF1600(&state)
	}

	var out [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], state[i])
	}
	return out
}

// TestKeccakF1600ZeroState tests the permutation of the all-zero state
func TestKeccakF1600ZeroState(t *testing.T) {
	var state [25]uint64
	KeccakF1600(&state)
	require.Equal(t, uint64(0xF1258F7940E1DDE7), state[0])
	require.Equal(t, uint64(0x84D5CCF933C0478A), state[1])
}

// TestKeccakF1600MatchesSponge tests the permutation against Keccak-256
func TestKeccakF1600MatchesSponge(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
	}{
		{"empty", nil},
		{"short", []byte("abc")},
		{"one block minus one", make([]byte, 135)},
		{"exact block", make([]byte, 136)},
		{"several blocks", make([]byte, 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.msg {
				tt.msg[i] = byte(i * 7)
			}
			h := sha3.NewLegacyKeccak256()
			h.Write(tt.msg)
			var want [32]byte
			copy(want[:], h.Sum(nil))

			require.Equal(t, want, legacyKeccak256(tt.msg))
		})
	}
}

func stateWords(state [25]uint64) []uint32 {
	words := make([]uint32, KeccakStateNumWords)
	for i, lane := range state {
		words[2*i] = uint32(lane)
		words[2*i+1] = uint32(lane >> 32)
	}
	return words
}

// TestKeccakPermuteSyscall tests the in-place permutation through memory
func TestKeccakPermuteSyscall(t *testing.T) {
	state := newTestState(t)
	const ptr = 0x2000

	var pre [25]uint64
	for i := range pre {
		pre[i] = uint64(i)*0x0101010101010101 + 3
	}
	require.NoError(t, state.InitMemory(ptr, stateWords(pre)))

	ctx := executor.NewSyscallContext(state, 0x00010109, state.NextLookupID())
	syscall := NewKeccakPermuteSyscall()
	_, halted, err := syscall.Execute(ctx, ptr, 0)
	require.NoError(t, err)
	require.False(t, halted)

	want := pre
	KeccakF1600(&want)
	for i, w := range stateWords(want) {
		require.Equal(t, w, state.Word(ptr+uint32(i)*4))
	}

	permutes := state.Record.KeccakPermuteEvents
	require.Len(t, permutes, 1)
	ev := permutes[0]
	require.Equal(t, pre, ev.PreState)
	require.Equal(t, want, ev.PostState)
	require.Equal(t, uint32(100), ev.Clk)
	require.Equal(t, uint32(ptr), ev.StateAddr)
	require.Len(t, ev.StateReadRecords, KeccakStateNumWords)
	require.Len(t, ev.StateWriteRecords, KeccakStateNumWords)
	require.Len(t, ev.LocalMemAccess, KeccakStateNumWords)
	require.Equal(t, uint32(101), ev.StateWriteRecords[0].Timestamp)
	require.Equal(t, uint32(101), ctx.Clk)
	require.Equal(t, 0, state.PendingLen())

	for i, acc := range ev.LocalMemAccess {
		require.Equal(t, uint32(ptr+4*i), acc.Addr)
		require.Equal(t, ev.StateReadRecords[i].Value, acc.Initial.Value)
		require.Equal(t, ev.StateWriteRecords[i].Value, acc.Final.Value)
	}
}

// TestKeccakPermuteErrors tests argument validation
func TestKeccakPermuteErrors(t *testing.T) {
	t.Run("non-zero second argument", func(t *testing.T) {
		state := newTestState(t)
		ctx := executor.NewSyscallContext(state, 0x00010109, state.NextLookupID())
		_, _, err := NewKeccakPermuteSyscall().Execute(ctx, 0x2000, 1)

		var argErr *executor.InvalidArgumentError
		require.ErrorAs(t, err, &argErr)
		require.Equal(t, uint32(1), argErr.Value)
	})

	t.Run("misaligned state pointer", func(t *testing.T) {
		state := newTestState(t)
		ctx := executor.NewSyscallContext(state, 0x00010109, state.NextLookupID())
		_, _, err := NewKeccakPermuteSyscall().Execute(ctx, 0x2002, 0)

		var alignErr *executor.AlignmentError
		require.ErrorAs(t, err, &alignErr)
		require.Equal(t, uint32(0x2002), alignErr.Addr)
		require.Empty(t, state.Record.KeccakPermuteEvents)
	})

	t.Run("leftover from the same cycle", func(t *testing.T) {
		state := newTestState(t)
		_, err := state.WriteWord(0x2000, state.Clk, 5)
		require.NoError(t, err)

		ctx := executor.NewSyscallContext(state, 0x00010109, state.NextLookupID())
		_, _, err = NewKeccakPermuteSyscall().Execute(ctx, 0x2000, 0)

		var pendErr *executor.UnexpectedPendingAccessError
		require.ErrorAs(t, err, &pendErr)
	})
}

// TestKeccakPermuteFlushesLeftovers tests that earlier interpreter
// accesses are moved to the shard-global list
func TestKeccakPermuteFlushesLeftovers(t *testing.T) {
	state := newTestState(t)
	_, err := state.WriteWord(0x2004, 50, 0xabcd)
	require.NoError(t, err)
	require.Equal(t, 1, state.PendingLen())

	ctx := executor.NewSyscallContext(state, 0x00010109, state.NextLookupID())
	_, _, err = NewKeccakPermuteSyscall().Execute(ctx, 0x2000, 0)
	require.NoError(t, err)

	require.Len(t, state.Record.MemoryAccesses, 1)
	require.Equal(t, uint32(0x2004), state.Record.MemoryAccesses[0].Addr)
	require.Equal(t, uint32(0xabcd), state.Record.KeccakPermuteEvents[0].StateReadRecords[1].Value)
	require.Equal(t, events.MemoryRead, state.Record.KeccakPermuteEvents[0].StateReadRecords[1].Kind)
}

func TestKeccakPermuteDeterminism(t *testing.T) {
	var pre [25]uint64
	for i := range pre {
		pre[i] = uint64(i+1) * 0x9E3779B97F4A7C15
	}

	run := func() [32]byte {
		state := newTestState(t)
		require.NoError(t, state.InitMemory(0x2000, stateWords(pre)))
		ctx := executor.NewSyscallContext(state, 0x00010109, state.NextLookupID())
		_, _, err := NewKeccakPermuteSyscall().Execute(ctx, 0x2000, 0)
		require.NoError(t, err)
		digest, err := state.Record.Digest()
		require.NoError(t, err)
		return digest
	}
	require.Equal(t, run(), run())
}
