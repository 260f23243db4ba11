// Package executor implements the memory access engine and the per-shard
// execution state driven by syscall precompiles.
package executor

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// State is the mutable context of one shard: address space, pending access
// buffer, clock, routing tags and the event record.
//
// A State has exactly one owner. It is not safe for concurrent use; shards
// run in parallel on separate states obtained from Fork.
type State struct {
	// Cycle clock; never decreases
	Clk uint32

	// Routing tags
	Shard    uint32
	Channel  uint32
	Channels uint32 // Channel ring size

	// Address space: address -> last access stamp
	memory map[uint32]events.MemoryCell

	// Pending access buffer: address -> access not yet reconciled
	pending map[uint32]*pendingAccess

	// Events of this shard
	Record *events.ExecutionRecord

	nextLookupID uint64
	aborted      error

	log *logrus.Entry
}

// NewState creates an empty shard state from the configuration
func NewState(cfg *utils.Config, logger *logrus.Logger) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = utils.DiscardLogger()
	}

	return &State{
		Clk:      0,
		Shard:    cfg.Shard,
		Channel:  0,
		Channels: cfg.ByteLookupChannels,
		memory:   make(map[uint32]events.MemoryCell),
		pending:  make(map[uint32]*pendingAccess),
		Record:   events.NewExecutionRecord(cfg.Shard),
		log:      logger.WithField("shard", cfg.Shard),
	}, nil
}

// Logger returns the shard-scoped logger
func (s *State) Logger() *logrus.Entry {
	return s.log
}

// InitMemory loads words at addr as part of the starting snapshot. The
// words carry no access stamp.
func (s *State) InitMemory(addr uint32, words []uint32) error {
	if !utils.IsAligned(addr) {
		return &AlignmentError{Addr: addr, Alignment: utils.WordSize}
	}
	for i, w := range words {
		s.memory[addr+uint32(i)*utils.WordSize] = events.MemoryCell{Value: w}
	}
	return nil
}

// Word returns the current value at addr without recording an access
func (s *State) Word(addr uint32) uint32 {
	return s.memory[addr].Value
}

// Cell returns the last access stamp of addr
func (s *State) Cell(addr uint32) events.MemoryCell {
	return s.memory[addr]
}

// ReadWord reads addr at clk on behalf of the surrounding interpreter. The
// access is merged into the pending buffer and stays there until a
// precompile flushes it or the shard is finalized.
func (s *State) ReadWord(addr, clk uint32) (uint32, events.MemoryRecord, error) {
	if !utils.IsAligned(addr) {
		return 0, events.MemoryRecord{}, &AlignmentError{Addr: addr, Alignment: utils.WordSize}
	}
	rec := s.read(addr, clk)
	s.track(addr, rec)
	return rec.Value, rec, nil
}

// WriteWord writes addr at clk on behalf of the surrounding interpreter
func (s *State) WriteWord(addr, clk, value uint32) (events.MemoryRecord, error) {
	if !utils.IsAligned(addr) {
		return events.MemoryRecord{}, &AlignmentError{Addr: addr, Alignment: utils.WordSize}
	}
	rec := s.write(addr, clk, value)
	s.track(addr, rec)
	return rec, nil
}

// read stamps addr with a read at clk and returns the record
func (s *State) read(addr, clk uint32) events.MemoryRecord {
	prev := s.memory[addr]
	rec := events.MemoryRecord{
		Addr:          addr,
		Kind:          events.MemoryRead,
		Value:         prev.Value,
		PrevValue:     prev.Value,
		Shard:         s.Shard,
		Channel:       s.Channel,
		Timestamp:     clk,
		PrevShard:     prev.Shard,
		PrevTimestamp: prev.Timestamp,
	}
	s.memory[addr] = rec.Cell()
	return rec
}

// write stamps addr with a write of value at clk and returns the record
func (s *State) write(addr, clk, value uint32) events.MemoryRecord {
	prev := s.memory[addr]
	rec := events.MemoryRecord{
		Addr:          addr,
		Kind:          events.MemoryWrite,
		Value:         value,
		PrevValue:     prev.Value,
		Shard:         s.Shard,
		Channel:       s.Channel,
		Timestamp:     clk,
		PrevShard:     prev.Shard,
		PrevTimestamp: prev.Timestamp,
	}
	s.memory[addr] = rec.Cell()
	return rec
}

// pendingAccess is a pending buffer entry and the kind of its latest access
type pendingAccess struct {
	access   events.LocalMemoryAccess
	lastKind events.MemoryAccessKind
}

// track merges rec into the pending entry of addr: the first access fixes
// Initial, every access moves Final.
func (s *State) track(addr uint32, rec events.MemoryRecord) {
	if entry, ok := s.pending[addr]; ok {
		entry.access.Final = rec.Cell()
		entry.lastKind = rec.Kind
		return
	}
	s.pending[addr] = &pendingAccess{
		access: events.LocalMemoryAccess{
			Addr:    addr,
			Initial: rec.PrevCell(),
			Final:   rec.Cell(),
		},
		lastKind: rec.Kind,
	}
}

// PendingLen returns the number of unreconciled accesses
func (s *State) PendingLen() int {
	return len(s.pending)
}

// Pending returns the pending access of addr, if any
func (s *State) Pending(addr uint32) (events.LocalMemoryAccess, bool) {
	entry, ok := s.pending[addr]
	if !ok {
		return events.LocalMemoryAccess{}, false
	}
	return entry.access, true
}

// AdvanceClock moves the clock forward by cycles. The interpreter calls it
// between instructions so consecutive accesses get distinct timestamps.
func (s *State) AdvanceClock(cycles uint32) {
	s.Clk += cycles
}

// AdvanceChannel moves to the next channel of the ring
func (s *State) AdvanceChannel() {
	s.Channel = (s.Channel + 1) % s.Channels
}

// NextLookupID returns a fresh identifier linking a syscall to its event.
// Identifiers are sequential so replays are deterministic.
func (s *State) NextLookupID() uint64 {
	s.nextLookupID++
	return s.nextLookupID
}

// Abort marks the state as failed; later operations return ErrAborted
func (s *State) Abort(err error) {
	if s.aborted == nil {
		s.aborted = err
		s.log.WithError(err).WithField("clk", s.Clk).Error("shard execution aborted")
	}
}

// Err returns the failure that aborted the state, or nil
func (s *State) Err() error {
	return s.aborted
}

// FinalizeShard flushes every remaining pending access into the shard-global
// list, in address order, and returns the record.
func (s *State) FinalizeShard() (*events.ExecutionRecord, error) {
	if s.aborted != nil {
		return nil, fmt.Errorf("cannot finalize shard %d: %w", s.Shard, ErrAborted)
	}

	addrs := make([]uint32, 0, len(s.pending))
	for addr := range s.pending {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		s.Record.AddMemoryAccess(s.pending[addr].access)
		delete(s.pending, addr)
	}
	return s.Record, nil
}

// Fork returns a private copy of the address space for the next shard, with
// an empty pending buffer, a fresh record and the clock reset.
func (s *State) Fork(shard uint32) *State {
	memory := make(map[uint32]events.MemoryCell, len(s.memory))
	for addr, cell := range s.memory {
		memory[addr] = cell
	}

	return &State{
		Clk:      0,
		Shard:    shard,
		Channel:  0,
		Channels: s.Channels,
		memory:   memory,
		pending:  make(map[uint32]*pendingAccess),
		Record:   events.NewExecutionRecord(shard),
		log:      s.log.WithField("shard", shard),
	}
}
