package executor

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
)

// ErrAborted is returned by every operation on a state that already failed.
// A failed precompile leaves the access accounting unbalanced, so the shard
// cannot continue.
var ErrAborted = errors.New("execution aborted by an earlier failure")

// AlignmentError reports a memory operand that is not word aligned
type AlignmentError struct {
	Addr      uint32
	Alignment uint32
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment fault: address 0x%08x is not a multiple of %d", e.Addr, e.Alignment)
}

// MissingAccessRecordError reports an address that reconciliation expected
// to find in the pending access buffer
type MissingAccessRecordError struct {
	Addr uint32
}

func (e *MissingAccessRecordError) Error() string {
	return fmt.Sprintf("missing access record: no pending access for address 0x%08x", e.Addr)
}

// UnknownSyscallError reports a syscall code with no registered precompile
type UnknownSyscallError struct {
	Code uint32
}

func (e *UnknownSyscallError) Error() string {
	return fmt.Sprintf("unknown syscall: 0x%08x", e.Code)
}

// UnexpectedPendingAccessError reports a pending access found where none
// belongs: a leftover stamped at or after the current syscall, or a fresh
// read of an address the current syscall already holds.
type UnexpectedPendingAccessError struct {
	Addr   uint32
	Access events.LocalMemoryAccess
	Reason string
}

func (e *UnexpectedPendingAccessError) Error() string {
	return fmt.Sprintf("unexpected pending access at 0x%08x (final shard=%d clk=%d): %s",
		e.Addr, e.Access.Final.Shard, e.Access.Final.Timestamp, e.Reason)
}

// InvalidArgumentError reports a syscall argument outside its contract
type InvalidArgumentError struct {
	Syscall uint32
	Arg     string
	Value   uint32
	Reason  string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=0x%08x for syscall 0x%08x: %s", e.Arg, e.Value, e.Syscall, e.Reason)
}
