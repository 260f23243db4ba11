package vybiumzkvm

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/bytes"
)

// ByteTable is the preprocessed table of every byte operation
type ByteTable = bytes.PreprocessedTrace

// ByteMultiplicityTrace counts a shard's queries per table entry
type ByteMultiplicityTrace = bytes.MultiplicityTrace

// GenerateByteTable builds and self-checks the preprocessed byte table
func GenerateByteTable(config *Config) (*ByteTable, error) {
	trace, err := bytes.GenerateTrace(config)
	if err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "failed to generate byte table", Cause: err}
	}
	if err := bytes.Verify(trace); err != nil {
		return nil, &VMError{Code: ErrTableGeneration, Message: "byte table failed verification", Cause: err}
	}
	return trace, nil
}

// CommitByteTable returns the Merkle root of the table as bytes
func CommitByteTable(table *ByteTable) ([]byte, error) {
	root, err := bytes.Commit(table)
	if err != nil {
		return nil, &VMError{Code: ErrTableGeneration, Message: "failed to commit to byte table", Cause: err}
	}
	return bytes.DigestBytes(root), nil
}

// ByteMultiplicities counts the byte lookups recorded for a shard
func ByteMultiplicities(record *ExecutionRecord, channels uint32) (*ByteMultiplicityTrace, error) {
	m, err := bytes.GenerateMultiplicityTrace(record.Shard, channels, record.ByteLookupEvents)
	if err != nil {
		return nil, &VMError{Code: ErrInvalidInput, Message: "invalid byte lookups", Cause: err}
	}
	return m, nil
}
