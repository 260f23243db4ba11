package vybiumzkvm

import (
	"github.com/sirupsen/logrus"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/bytes"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/syscalls"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// Executor runs precompile syscalls against one shard and collects their
// events. It is not safe for concurrent use; shards run on separate
// executors.
type Executor interface {
	// LoadMemory places words at addr in the starting memory snapshot
	LoadMemory(addr uint32, words []uint32) error

	// ReadMemory returns n words at addr without recording an access
	ReadMemory(addr uint32, n int) []uint32

	// Syscall dispatches code at the current clock
	Syscall(code SyscallCode, arg1, arg2 uint32) (ret uint32, ok bool, err error)

	// LookupByte records a byte table query on the current channel and
	// returns it
	LookupByte(opcode ByteOpcode, b, c uint8) ByteLookupEvent

	// Step advances the clock by cycles, as the interpreter does after
	// every instruction. Two syscalls touching the same address must be
	// separated by a step.
	Step(cycles uint32)

	// AdvanceChannel moves to the next byte lookup channel
	AdvanceChannel()

	// Clock returns the current cycle
	Clock() uint32

	// Finalize flushes outstanding accesses and returns the shard record
	Finalize() (*ExecutionRecord, error)

	// Err returns the failure that aborted the executor, if any
	Err() error
}

// executorImpl is the internal implementation of Executor
type executorImpl struct {
	state      *executor.State
	dispatcher *syscalls.Dispatcher
}

// NewExecutor creates an executor for the shard named in config. A nil
// logger discards log output.
func NewExecutor(config *Config, logger *logrus.Logger) (Executor, error) {
	state, err := executor.NewState(config, logger)
	if err != nil {
		return nil, &VMError{
			Code:    ErrInvalidConfig,
			Message: "invalid executor configuration",
			Cause:   err,
		}
	}

	dispatcher, err := syscalls.NewDefaultDispatcher()
	if err != nil {
		return nil, &VMError{
			Code:    ErrInvalidConfig,
			Message: "failed to register precompiles",
			Cause:   err,
		}
	}

	return &executorImpl{state: state, dispatcher: dispatcher}, nil
}

// LoadMemory places words at addr in the starting memory snapshot
func (e *executorImpl) LoadMemory(addr uint32, words []uint32) error {
	if err := e.state.InitMemory(addr, words); err != nil {
		return newError("failed to load memory", err)
	}
	return nil
}

// ReadMemory returns n words at addr without recording an access
func (e *executorImpl) ReadMemory(addr uint32, n int) []uint32 {
	if n <= 0 {
		return nil
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = e.state.Word(addr + uint32(i)*utils.WordSize)
	}
	return words
}

// Syscall dispatches code at the current clock
func (e *executorImpl) Syscall(code SyscallCode, arg1, arg2 uint32) (uint32, bool, error) {
	ret, ok, err := e.dispatcher.Dispatch(e.state, uint32(code), arg1, arg2)
	if err != nil {
		return 0, false, newError("syscall "+code.String()+" failed", err)
	}
	return ret, ok, nil
}

// LookupByte records a byte table query on the current channel
func (e *executorImpl) LookupByte(opcode ByteOpcode, b, c uint8) ByteLookupEvent {
	event := bytes.ComputeRow(b, c).LookupEvent(e.state.Shard, e.state.Channel, opcode)
	e.state.Record.AddByteLookupEvent(event)
	return event
}

// Step advances the clock by cycles
func (e *executorImpl) Step(cycles uint32) {
	e.state.AdvanceClock(cycles)
}

// AdvanceChannel moves to the next byte lookup channel
func (e *executorImpl) AdvanceChannel() {
	e.state.AdvanceChannel()
}

// Clock returns the current cycle
func (e *executorImpl) Clock() uint32 {
	return e.state.Clk
}

// Finalize flushes outstanding accesses and returns the shard record
func (e *executorImpl) Finalize() (*ExecutionRecord, error) {
	record, err := e.state.FinalizeShard()
	if err != nil {
		return nil, newError("failed to finalize shard", err)
	}
	return record, nil
}

// Err returns the failure that aborted the executor, if any
func (e *executorImpl) Err() error {
	if err := e.state.Err(); err != nil {
		return newError("executor aborted", err)
	}
	return nil
}
