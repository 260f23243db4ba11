package bytes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// TestShrCarry tests the shift-with-carry primitive
func TestShrCarry(t *testing.T) {
	tests := []struct {
		b, c       uint8
		shr, carry uint8
	}{
		{0xAB, 0x00, 0xAB, 0x00},
		{0xAB, 0x08, 0xAB, 0x00},
		{0xAB, 0x01, 0x55, 0x01},
		{0xAB, 0x04, 0x0A, 0x0B},
		{0xAB, 0x0F, 0x01, 0x2B},
		{0xFF, 0x07, 0x01, 0x7F},
	}

	for _, tt := range tests {
		shr, carry := ShrCarry(tt.b, tt.c)
		require.Equal(t, tt.shr, shr, "shr(%#x, %#x)", tt.b, tt.c)
		require.Equal(t, tt.carry, carry, "carry(%#x, %#x)", tt.b, tt.c)
	}

	for b := 0; b < 256; b++ {
		for c := 0; c < 256; c++ {
			shr, carry := ShrCarry(uint8(b), uint8(c))
			require.Equal(t, uint8(b), shr<<(uint8(c)&7)|carry)
		}
	}
}

// TestComputeRow tests a row against the worked example
func TestComputeRow(t *testing.T) {
	row := ComputeRow(0xAB, 0x0F)
	require.Equal(t, Row{
		B:        0xAB,
		C:        0x0F,
		And:      0x0B,
		Or:       0xAF,
		Xor:      0xA4,
		Sll:      0x80,
		Shr:      0x01,
		ShrCarry: 0x2B,
		Ltu:      0,
		Msb:      1,
		ValueU16: 0xAB0F,
	}, row)
	require.Equal(t, 0xAB0F, RowIndex(0xAB, 0x0F))
	require.Equal(t, uint8(1), ComputeRow(0x01, 0x02).Ltu)
}

// TestLookupEventShapes tests the operand layout of each opcode
func TestLookupEventShapes(t *testing.T) {
	row := ComputeRow(0xAB, 0x0F)

	tests := []struct {
		op   events.ByteOpcode
		want events.ByteLookupEvent
	}{
		{events.ByteAND, events.NewByteLookupEvent(3, 2, events.ByteAND, 0x0B, 0, 0xAB, 0x0F)},
		{events.ByteU8Range, events.NewByteLookupEvent(3, 2, events.ByteU8Range, 0, 0, 0xAB, 0x0F)},
		{events.ByteShrCarry, events.NewByteLookupEvent(3, 2, events.ByteShrCarry, 0x01, 0x2B, 0xAB, 0x0F)},
		{events.ByteMSB, events.NewByteLookupEvent(3, 2, events.ByteMSB, 1, 0, 0xAB, 0)},
		{events.ByteU16Range, events.NewByteLookupEvent(3, 2, events.ByteU16Range, 0xAB0F, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			require.Equal(t, tt.want, row.LookupEvent(3, 2, tt.op))
		})
	}
}

// TestGenerateTrace tests the full preprocessed table
func TestGenerateTrace(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		trace, err := GenerateTrace(utils.DefaultConfig().WithTableWorkers(workers))
		require.NoError(t, err)
		require.Equal(t, NumRows, trace.Height())
		require.Equal(t, NumPreprocessedCols, trace.Width)
		require.NoError(t, Verify(trace))

		row := trace.Row(0xAB0F)
		require.Equal(t, uint64(0xAB), row[ColB].Value())
		require.Equal(t, uint64(0x0F), row[ColC].Value())
		require.Equal(t, uint64(0x01), row[ColShr].Value())
		require.Equal(t, uint64(0x2B), row[ColShrCarry].Value())
		require.Equal(t, uint64(0xAB0F), row[ColValueU16].Value())

		col := trace.Column(ColValueU16)
		for i, v := range col {
			require.Equal(t, uint64(i), v.Value())
		}
	}

	_, err := GenerateTrace(utils.DefaultConfig().WithTableWorkers(0))
	require.Error(t, err)
}

// TestVerifyDetectsCorruption tests that a tampered entry is found
func TestVerifyDetectsCorruption(t *testing.T) {
	trace, err := GenerateTrace(utils.DefaultConfig())
	require.NoError(t, err)

	trace.Row(0x1234)[ColXor] = field.New(0)
	require.Error(t, Verify(trace))

	short := &PreprocessedTrace{Values: trace.Values[:NumPreprocessedCols], Width: NumPreprocessedCols}
	require.Error(t, Verify(short))
}

// TestGenerateLookupEvents tests the size and content of the event stream
func TestGenerateLookupEvents(t *testing.T) {
	perOpcode := make(map[events.ByteOpcode]int)
	perChannel := make(map[uint32]int)
	var sample []events.ByteLookupEvent

	n := GenerateLookupEvents(1, utils.NumByteLookupChannels, func(e events.ByteLookupEvent) {
		perOpcode[e.Opcode]++
		perChannel[e.Channel]++
		if e.B == 0xAB && e.C == 0x0F && e.Channel == 0 && e.Opcode != events.ByteMSB {
			sample = append(sample, e)
		}
	})

	require.Equal(t, 16*9*65536, n)
	require.Len(t, perOpcode, NumByteOps)
	for _, count := range perOpcode {
		require.Equal(t, 16*65536, count)
	}
	require.Len(t, perChannel, 16)

	// MSB and U16Range zero their c input, so they are absent from the sample
	require.Len(t, sample, NumByteOps-2)
	require.Equal(t, events.NewByteLookupEvent(1, 0, events.ByteShrCarry, 0x01, 0x2B, 0xAB, 0x0F), sample[5])
}

// TestGenerateMultiplicityTrace tests lookup counting
func TestGenerateMultiplicityTrace(t *testing.T) {
	row := ComputeRow(0xAB, 0x0F)
	lookups := []events.ByteLookupEvent{
		row.LookupEvent(1, 0, events.ByteAND),
		row.LookupEvent(1, 0, events.ByteAND),
		row.LookupEvent(1, 5, events.ByteXOR),
		row.LookupEvent(1, 5, events.ByteMSB),
		row.LookupEvent(1, 3, events.ByteU16Range),
	}

	m, err := GenerateMultiplicityTrace(1, 16, lookups)
	require.NoError(t, err)
	require.Equal(t, 16*NumByteOps, m.Width())
	require.Equal(t, uint32(2), m.Count(0xAB0F, 0, events.ByteAND))
	require.Equal(t, uint32(1), m.Count(0xAB0F, 5, events.ByteXOR))
	require.Equal(t, uint32(1), m.Count(0xAB00, 5, events.ByteMSB))
	require.Equal(t, uint32(1), m.Count(0xAB0F, 3, events.ByteU16Range))
	require.Equal(t, uint32(0), m.Count(0xAB0F, 1, events.ByteAND))

	var total uint64
	for _, v := range m.Elements() {
		total += v.Value()
	}
	require.Equal(t, uint64(len(lookups)), total)
}

// TestGenerateMultiplicityTraceRejects tests malformed lookups
func TestGenerateMultiplicityTraceRejects(t *testing.T) {
	row := ComputeRow(0x10, 0x20)

	wrongResult := row.LookupEvent(1, 0, events.ByteOR)
	wrongResult.A1 = 0

	tests := []struct {
		name   string
		lookup events.ByteLookupEvent
	}{
		{"other shard", row.LookupEvent(2, 0, events.ByteAND)},
		{"channel out of range", row.LookupEvent(1, 16, events.ByteAND)},
		{"wrong result", wrongResult},
		{"non-byte input", events.NewByteLookupEvent(1, 0, events.ByteAND, 0, 0, 0x100, 0)},
		{"u16 overflow", events.NewByteLookupEvent(1, 0, events.ByteU16Range, 0x10000, 0, 0, 0)},
		{"unknown opcode", events.NewByteLookupEvent(1, 0, events.ByteOpcode(9), 0, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateMultiplicityTrace(1, 16, []events.ByteLookupEvent{tt.lookup})
			require.Error(t, err)
		})
	}

	_, err := GenerateMultiplicityTrace(1, 0, nil)
	require.Error(t, err)
}

// TestCommit tests that the commitment is deterministic and binding
func TestCommit(t *testing.T) {
	a, err := GenerateTrace(utils.DefaultConfig().WithTableWorkers(2))
	require.NoError(t, err)
	b, err := GenerateTrace(utils.DefaultConfig().WithTableWorkers(7))
	require.NoError(t, err)

	rootA, err := Commit(a)
	require.NoError(t, err)
	rootB, err := Commit(b)
	require.NoError(t, err)
	require.Equal(t, rootA, rootB)
	require.Len(t, DigestBytes(rootA), len(rootA)*8)

	b.Row(7)[ColAnd] = field.New(99)
	rootC, err := Commit(b)
	require.NoError(t, err)
	require.NotEqual(t, rootA, rootC)

	_, err = Commit(&PreprocessedTrace{Width: NumPreprocessedCols})
	require.Error(t, err)
}
