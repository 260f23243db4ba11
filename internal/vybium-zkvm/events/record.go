package events

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

// ExecutionRecord collects every event emitted while executing one shard.
//
// Events are appended through one method per kind and are never mutated
// afterwards. MemoryAccesses holds the shard-global reconciled accesses that
// did not belong to any precompile event.
type ExecutionRecord struct {
	Shard uint32

	ByteLookupEvents []ByteLookupEvent
	SyscallEvents    []SyscallEvent

	KeccakPermuteEvents []KeccakPermuteEvent

	Bn254Fp2MulEvents    []Fp2MulEvent
	Bls12381Fp2MulEvents []Fp2MulEvent

	Bn254Fp2AddSubEvents    []Fp2AddSubEvent
	Bls12381Fp2AddSubEvents []Fp2AddSubEvent

	Bn254FpEvents    []FpOpEvent
	Bls12381FpEvents []FpOpEvent

	MemoryAccesses []LocalMemoryAccess
}

// NewExecutionRecord creates an empty record for the given shard
func NewExecutionRecord(shard uint32) *ExecutionRecord {
	return &ExecutionRecord{Shard: shard}
}

// AddByteLookupEvent appends a byte lookup
func (r *ExecutionRecord) AddByteLookupEvent(e ByteLookupEvent) {
	r.ByteLookupEvents = append(r.ByteLookupEvents, e)
}

// AddSyscallEvent appends a dispatched syscall
func (r *ExecutionRecord) AddSyscallEvent(e SyscallEvent) {
	r.SyscallEvents = append(r.SyscallEvents, e)
}

// AddKeccakPermuteEvent appends a permutation event
func (r *ExecutionRecord) AddKeccakPermuteEvent(e KeccakPermuteEvent) {
	r.KeccakPermuteEvents = append(r.KeccakPermuteEvents, e)
}

// AddBn254Fp2MulEvent appends a BN254 quadratic-extension multiplication
func (r *ExecutionRecord) AddBn254Fp2MulEvent(e Fp2MulEvent) {
	r.Bn254Fp2MulEvents = append(r.Bn254Fp2MulEvents, e)
}

// AddBls12381Fp2MulEvent appends a BLS12-381 quadratic-extension multiplication
func (r *ExecutionRecord) AddBls12381Fp2MulEvent(e Fp2MulEvent) {
	r.Bls12381Fp2MulEvents = append(r.Bls12381Fp2MulEvents, e)
}

// AddBn254Fp2AddSubEvent appends a BN254 quadratic-extension add or sub
func (r *ExecutionRecord) AddBn254Fp2AddSubEvent(e Fp2AddSubEvent) {
	r.Bn254Fp2AddSubEvents = append(r.Bn254Fp2AddSubEvents, e)
}

// AddBls12381Fp2AddSubEvent appends a BLS12-381 quadratic-extension add or sub
func (r *ExecutionRecord) AddBls12381Fp2AddSubEvent(e Fp2AddSubEvent) {
	r.Bls12381Fp2AddSubEvents = append(r.Bls12381Fp2AddSubEvents, e)
}

// AddBn254FpEvent appends a BN254 base-field operation
func (r *ExecutionRecord) AddBn254FpEvent(e FpOpEvent) {
	r.Bn254FpEvents = append(r.Bn254FpEvents, e)
}

// AddBls12381FpEvent appends a BLS12-381 base-field operation
func (r *ExecutionRecord) AddBls12381FpEvent(e FpOpEvent) {
	r.Bls12381FpEvents = append(r.Bls12381FpEvents, e)
}

// AddMemoryAccess appends a shard-global reconciled access
func (r *ExecutionRecord) AddMemoryAccess(a LocalMemoryAccess) {
	r.MemoryAccesses = append(r.MemoryAccesses, a)
}

// Stats returns the number of events per collection
func (r *ExecutionRecord) Stats() map[string]int {
	return map[string]int{
		"byte_lookup_events":          len(r.ByteLookupEvents),
		"syscall_events":              len(r.SyscallEvents),
		"keccak_permute_events":       len(r.KeccakPermuteEvents),
		"bn254_fp2_mul_events":        len(r.Bn254Fp2MulEvents),
		"bls12381_fp2_mul_events":     len(r.Bls12381Fp2MulEvents),
		"bn254_fp2_addsub_events":     len(r.Bn254Fp2AddSubEvents),
		"bls12381_fp2_addsub_events":  len(r.Bls12381Fp2AddSubEvents),
		"bn254_fp_events":             len(r.Bn254FpEvents),
		"bls12381_fp_events":          len(r.Bls12381FpEvents),
		"global_memory_access_events": len(r.MemoryAccesses),
	}
}

// encMode is the deterministic CBOR encoding used for serialization and
// digests, so equal records always encode to equal bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: invalid deterministic encoding options: %v", err))
	}
	return em
}()

// recordPayload has the fields of ExecutionRecord without its methods, so
// cbor does not dispatch back into MarshalBinary/UnmarshalBinary.
type recordPayload ExecutionRecord

// MarshalBinary encodes the record as deterministic CBOR
func (r *ExecutionRecord) MarshalBinary() ([]byte, error) {
	data, err := encMode.Marshal((*recordPayload)(r))
	if err != nil {
		return nil, fmt.Errorf("failed to encode record for shard %d: %w", r.Shard, err)
	}
	return data, nil
}

// UnmarshalBinary decodes a record produced by MarshalBinary
func (r *ExecutionRecord) UnmarshalBinary(data []byte) error {
	var decoded recordPayload
	if err := cbor.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	*r = ExecutionRecord(decoded)
	return nil
}

// Encode writes the CBOR encoding of the record to w
func (r *ExecutionRecord) Encode(w io.Writer) error {
	data, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// DecodeExecutionRecord reads a CBOR encoded record from rd
func DecodeExecutionRecord(rd io.Reader) (*ExecutionRecord, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	r := &ExecutionRecord{}
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return r, nil
}

// Digest returns the SHA3-256 hash of the deterministic encoding. Two
// executions with identical inputs produce identical digests.
func (r *ExecutionRecord) Digest() ([32]byte, error) {
	data, err := r.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return sha3.Sum256(data), nil
}
