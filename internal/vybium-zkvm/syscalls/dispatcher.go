package syscalls

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/syscalls/precompiles"
)

// Syscall is a precompile invoked through the dispatcher
type Syscall interface {
	// Execute runs the precompile. The returned value is meaningful only
	// when ok is true.
	Execute(ctx *executor.SyscallContext, arg1, arg2 uint32) (ret uint32, ok bool, err error)

	// NumExtraCycles returns the clock cycles the precompile consumes
	// beyond the syscall instruction itself
	NumExtraCycles() uint32
}

// DefaultSyscallMap returns a fresh registry of every built-in precompile
func DefaultSyscallMap() (map[SyscallCode]Syscall, error) {
	registry := make(map[SyscallCode]Syscall, len(AllSyscalls))
	for code, info := range AllSyscalls {
		sc, err := newSyscall(info)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", info.Name, err)
		}
		registry[code] = sc
	}
	return registry, nil
}

func newSyscall(info SyscallInfo) (Syscall, error) {
	if info.Code == KeccakPermute {
		return precompiles.NewKeccakPermuteSyscall(), nil
	}

	params, err := precompiles.ParamsFor(info.Field)
	if err != nil {
		return nil, err
	}
	switch {
	case !info.Fp2:
		return precompiles.NewFpOpSyscall(params, info.Op)
	case info.Op == events.FieldMul:
		return precompiles.NewFp2MulSyscall(params)
	default:
		return precompiles.NewFp2AddSubSyscall(params, info.Op)
	}
}

// Dispatcher routes syscall codes to their precompiles
type Dispatcher struct {
	registry map[SyscallCode]Syscall
}

// NewDispatcher creates a dispatcher over registry
func NewDispatcher(registry map[SyscallCode]Syscall) *Dispatcher {
	if registry == nil {
		registry = make(map[SyscallCode]Syscall)
	}
	return &Dispatcher{registry: registry}
}

// NewDefaultDispatcher creates a dispatcher with every built-in precompile
func NewDefaultDispatcher() (*Dispatcher, error) {
	registry, err := DefaultSyscallMap()
	if err != nil {
		return nil, err
	}
	return NewDispatcher(registry), nil
}

// Register adds or replaces the precompile of code
func (d *Dispatcher) Register(code SyscallCode, sc Syscall) {
	d.registry[code] = sc
}

// Lookup returns the precompile of code
func (d *Dispatcher) Lookup(code SyscallCode) (Syscall, bool) {
	sc, ok := d.registry[code]
	return sc, ok
}

// Dispatch runs syscall code against state at the current clock. On
// success the state clock moves forward by the precompile's extra cycles
// and a SyscallEvent is recorded. Any failure aborts the state.
func (d *Dispatcher) Dispatch(state *executor.State, code, arg1, arg2 uint32) (uint32, bool, error) {
	if err := state.Err(); err != nil {
		return 0, false, fmt.Errorf("syscall 0x%08x refused: %w", code, executor.ErrAborted)
	}

	sc, ok := d.registry[SyscallCode(code)]
	if !ok {
		err := &executor.UnknownSyscallError{Code: code}
		state.Abort(err)
		return 0, false, err
	}

	lookupID := state.NextLookupID()
	ctx := executor.NewSyscallContext(state, code, lookupID)

	log := state.Logger().WithFields(logrus.Fields{
		"syscall":   SyscallCode(code).String(),
		"clk":       state.Clk,
		"lookup_id": lookupID,
	})
	log.Debug("dispatching syscall")

	ret, hasRet, err := sc.Execute(ctx, arg1, arg2)
	if err != nil {
		err = fmt.Errorf("syscall %s at clk %d: %w", SyscallCode(code), state.Clk, err)
		state.Abort(err)
		return 0, false, err
	}

	state.Record.AddSyscallEvent(events.SyscallEvent{
		LookupID: lookupID,
		Shard:    state.Shard,
		Channel:  state.Channel,
		Clk:      state.Clk,
		Syscall:  code,
		Arg1:     arg1,
		Arg2:     arg2,
	})

	state.Clk += sc.NumExtraCycles()
	log.WithField("extra_cycles", sc.NumExtraCycles()).Debug("syscall complete")

	return ret, hasRet, nil
}
