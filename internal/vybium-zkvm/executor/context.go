package executor

import (
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// SyscallContext is the view of the shard state handed to one precompile
// invocation. Its clock starts at the state clock and may be advanced by
// the precompile to order its writes after its reads; the state clock
// itself is advanced by the dispatcher.
type SyscallContext struct {
	state *State

	Clk      uint32 // Current clock of the invocation
	StartClk uint32 // Clock at which the invocation began
	Syscall  uint32 // Code of the running syscall
	LookupID uint64 // Identifier linking the syscall to its event
}

// NewSyscallContext creates a context for syscall code at the state clock
func NewSyscallContext(state *State, code uint32, lookupID uint64) *SyscallContext {
	return &SyscallContext{
		state:    state,
		Clk:      state.Clk,
		StartClk: state.Clk,
		Syscall:  code,
		LookupID: lookupID,
	}
}

// Shard returns the current shard
func (c *SyscallContext) Shard() uint32 { return c.state.Shard }

// Channel returns the current channel
func (c *SyscallContext) Channel() uint32 { return c.state.Channel }

// Record returns the event record of the shard
func (c *SyscallContext) Record() *events.ExecutionRecord { return c.state.Record }

// AdvanceClock moves the invocation clock forward by n cycles
func (c *SyscallContext) AdvanceClock(n uint32) {
	c.Clk += n
}

// CheckAligned returns an AlignmentError unless addr is word aligned
func CheckAligned(addr uint32) error {
	if !utils.IsAligned(addr) {
		return &AlignmentError{Addr: addr, Alignment: utils.WordSize}
	}
	return nil
}

// SliceAddrs returns the word addresses of n words starting at addr
func SliceAddrs(addr uint32, n int) []uint32 {
	addrs := make([]uint32, n)
	for i := range addrs {
		addrs[i] = addr + uint32(i)*utils.WordSize
	}
	return addrs
}

// ReadSlice reads n words starting at addr at the current clock. Every
// word produces a read record and a pending entry. Reading an address this
// invocation already read is a contract violation; a pending write of this
// invocation is merged with the read.
func (c *SyscallContext) ReadSlice(addr uint32, n int) ([]uint32, []events.MemoryRecord, error) {
	if err := CheckAligned(addr); err != nil {
		return nil, nil, err
	}

	addrs := SliceAddrs(addr, n)
	for _, a := range addrs {
		entry, ok := c.state.pending[a]
		if ok && entry.lastKind == events.MemoryRead && entry.access.Final.Timestamp >= c.StartClk {
			return nil, nil, &UnexpectedPendingAccessError{
				Addr:   a,
				Access: entry.access,
				Reason: "address already read by the running syscall",
			}
		}
	}

	values := make([]uint32, n)
	records := make([]events.MemoryRecord, n)
	for i, a := range addrs {
		rec := c.state.read(a, c.Clk)
		c.state.track(a, rec)
		values[i] = rec.Value
		records[i] = rec
	}
	return values, records, nil
}

// WriteSlice writes values starting at addr at the current clock. A
// pending read of the same address by this invocation is merged with the
// write into one entry.
func (c *SyscallContext) WriteSlice(addr uint32, values []uint32) ([]events.MemoryRecord, error) {
	if err := CheckAligned(addr); err != nil {
		return nil, err
	}

	records := make([]events.MemoryRecord, len(values))
	for i, v := range values {
		a := addr + uint32(i)*utils.WordSize
		rec := c.state.write(a, c.Clk, v)
		c.state.track(a, rec)
		records[i] = rec
	}
	return records, nil
}

// UnsafeSlice returns n words starting at addr without recording accesses.
// Callers must record the words through a later write.
func (c *SyscallContext) UnsafeSlice(addr uint32, n int) ([]uint32, error) {
	if err := CheckAligned(addr); err != nil {
		return nil, err
	}

	values := make([]uint32, n)
	for i, a := range SliceAddrs(addr, n) {
		values[i] = c.state.memory[a].Value
	}
	return values, nil
}

// FlushPending moves pending entries of addrs that belong to an earlier
// logical operation into the shard-global access list. Such an entry must
// be stamped in this shard strictly before the invocation began.
func (c *SyscallContext) FlushPending(addrs []uint32) error {
	for _, a := range addrs {
		entry, ok := c.state.pending[a]
		if !ok {
			continue
		}
		if entry.access.Final.Shard != c.state.Shard {
			return &UnexpectedPendingAccessError{Addr: a, Access: entry.access, Reason: "leftover from another shard"}
		}
		if entry.access.Final.Timestamp >= c.StartClk {
			return &UnexpectedPendingAccessError{Addr: a, Access: entry.access, Reason: "leftover is not older than the running syscall"}
		}
		c.state.Record.AddMemoryAccess(entry.access)
		delete(c.state.pending, a)
	}
	return nil
}

// ReconcileAndDrain removes the pending entry of every address and returns
// them in order. Each address must be pending.
func (c *SyscallContext) ReconcileAndDrain(addrs []uint32) ([]events.LocalMemoryAccess, error) {
	for _, a := range addrs {
		if _, ok := c.state.pending[a]; !ok {
			return nil, &MissingAccessRecordError{Addr: a}
		}
	}

	local := make([]events.LocalMemoryAccess, len(addrs))
	for i, a := range addrs {
		entry, ok := c.state.pending[a]
		if !ok {
			// listed twice
			return nil, &MissingAccessRecordError{Addr: a}
		}
		local[i] = entry.access
		delete(c.state.pending, a)
	}
	return local, nil
}
