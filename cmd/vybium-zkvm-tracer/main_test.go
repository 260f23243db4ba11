package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

func TestParseByteOpcode(t *testing.T) {
	for _, op := range events.AllByteOpcodes() {
		parsed, err := parseByteOpcode(op.String())
		require.NoError(t, err)
		require.Equal(t, op, parsed)
	}

	_, err := parseByteOpcode("NAND")
	require.Error(t, err)
}

func TestRunScript(t *testing.T) {
	script := `{
		"memory": [
			{"addr": 4096, "words": [2, 0, 0, 0, 0, 0, 0, 0]},
			{"addr": 8192, "words": [21, 0, 0, 0, 0, 0, 0, 0]}
		],
		"byte_lookups": [{"op": "XOR", "b": 171, "c": 15}],
		"calls": [
			{"syscall": "bn254_fp_mul", "arg1": 4096, "arg2": 8192},
			{"syscall": "keccak_permute", "arg1": 12288, "arg2": 0}
		]
	}`

	output := filepath.Join(t.TempDir(), "record.cbor")
	err := runScript(utils.DefaultConfig(), utils.DiscardLogger(), strings.NewReader(script), output)
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	record, err := events.DecodeExecutionRecord(f)
	require.NoError(t, err)
	require.Len(t, record.SyscallEvents, 2)
	require.Len(t, record.Bn254FpEvents, 1)
	require.Len(t, record.KeccakPermuteEvents, 1)
	require.Len(t, record.ByteLookupEvents, 1)
	require.Equal(t, uint32(0xA4), record.ByteLookupEvents[0].A1)
	require.Equal(t, uint32(1), record.KeccakPermuteEvents[0].Channel)
}

func TestRunScriptRepeatedKeccak(t *testing.T) {
	script := `{
		"calls": [
			{"syscall": "keccak_permute", "arg1": 4096, "arg2": 0},
			{"syscall": "keccak_permute", "arg1": 4096, "arg2": 0}
		]
	}`

	output := filepath.Join(t.TempDir(), "record.cbor")
	err := runScript(utils.DefaultConfig(), utils.DiscardLogger(), strings.NewReader(script), output)
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	record, err := events.DecodeExecutionRecord(f)
	require.NoError(t, err)
	require.Len(t, record.KeccakPermuteEvents, 2)
	require.Equal(t, uint32(0), record.KeccakPermuteEvents[0].Clk)
	require.Equal(t, uint32(5), record.KeccakPermuteEvents[1].Clk)

	read := record.KeccakPermuteEvents[1].StateReadRecords[0]
	require.Less(t, read.PrevTimestamp, read.Timestamp)
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"malformed json", `{"calls": [`},
		{"unknown syscall", `{"calls": [{"syscall": "sha256_extend"}]}`},
		{"unknown opcode", `{"byte_lookups": [{"op": "NAND"}]}`},
		{"misaligned memory", `{"memory": [{"addr": 3, "words": [1]}]}`},
		{"failing syscall", `{"calls": [{"syscall": "keccak_permute", "arg1": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "record.cbor")
			err := runScript(utils.DefaultConfig(), utils.DiscardLogger(), strings.NewReader(tt.script), output)
			require.Error(t, err)
		})
	}
}
