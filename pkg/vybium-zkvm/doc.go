// Package vybiumzkvm generates execution traces for the Vybium zkVM.
//
// The executor runs cryptographic precompile syscalls against a word
// addressed memory and records, cycle by cycle, every memory access and
// result the arithmetization layer needs to prove the run. Every address a
// precompile touches is reconciled into exactly one first/last access pair,
// so the memory argument of the proof balances.
//
// # Precompiles
//
//   - Keccak-f[1600] permutation of a 25-lane state
//   - BN254 and BLS12-381 base field add, sub and mul
//   - BN254 and BLS12-381 quadratic extension add, sub and mul
//
// # Quick Start
//
// Running a syscall and collecting the shard record:
//
//	exec, err := vybiumzkvm.NewExecutor(vybiumzkvm.DefaultConfig(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := exec.LoadMemory(0x1000, state); err != nil {
//		log.Fatal(err)
//	}
//	if _, _, err := exec.Syscall(vybiumzkvm.KeccakPermute, 0x1000, 0); err != nil {
//		log.Fatal(err)
//	}
//
//	record, err := exec.Finalize()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Byte table
//
// The preprocessed byte table holds all 65536 byte pairs with the result of
// every byte operation. It is shared by all shards:
//
//	table, err := vybiumzkvm.GenerateByteTable(vybiumzkvm.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	root, err := vybiumzkvm.CommitByteTable(table)
//
// # Errors
//
// Every failure is a *VMError whose Code names its kind. The first failure
// aborts the executor; later syscalls return ErrAborted.
//
// # Architecture
//
// - pkg/vybium-zkvm/: Public API (this package)
// - internal/vybium-zkvm/: Private implementation (not importable)
package vybiumzkvm
