package precompiles

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// FpOpSyscall applies a base-field operation in place: x <- x op y
type FpOpSyscall struct {
	params  FieldParams
	op      events.FieldOperation
	modulus *big.Int
	push    func(*events.ExecutionRecord, events.FpOpEvent)
}

// NewFpOpSyscall creates the base-field precompile for op
func NewFpOpSyscall(params FieldParams, op events.FieldOperation) (*FpOpSyscall, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field parameters: %w", err)
	}
	switch op {
	case events.FieldAdd, events.FieldSub, events.FieldMul:
	default:
		return nil, fmt.Errorf("unsupported field operation %d", op)
	}

	push := (*events.ExecutionRecord).AddBn254FpEvent
	if params.Type == events.FieldBls12381 {
		push = (*events.ExecutionRecord).AddBls12381FpEvent
	}

	return &FpOpSyscall{
		params:  params,
		op:      op,
		modulus: params.ModulusBig(),
		push:    push,
	}, nil
}

// NumExtraCycles returns the clock cost beyond the syscall instruction
func (s *FpOpSyscall) NumExtraCycles() uint32 {
	return 1
}

// fieldOp computes a op b mod p for reduced or unreduced inputs
func fieldOp(op events.FieldOperation, a, b, p *big.Int) *big.Int {
	r := new(big.Int)
	switch op {
	case events.FieldAdd:
		r.Add(a, b)
	case events.FieldSub:
		r.Sub(a, b)
	case events.FieldMul:
		r.Mul(a, b)
	}
	// Mod is Euclidean, so a negative difference wraps into [0, p).
	return r.Mod(r, p)
}

// Execute performs the operation and emits an FpOpEvent
func (s *FpOpSyscall) Execute(ctx *executor.SyscallContext, arg1, arg2 uint32) (uint32, bool, error) {
	n := s.params.WordsPerElement
	op := binaryOperation{
		words:   n,
		compute: func(x, y []uint32) []uint32 {
			a := utils.WordsToBig(x)
			b := utils.WordsToBig(y)
			return elementWords(fieldOp(s.op, a, b, s.modulus), n)
		},
	}

	res, err := op.run(ctx, arg1, arg2)
	if err != nil {
		return 0, false, fmt.Errorf("%s fp %s: %w", s.params.Type, s.op, err)
	}

	s.push(ctx.Record(), events.FpOpEvent{
		LookupID:       ctx.LookupID,
		Shard:          ctx.Shard(),
		Channel:        ctx.Channel(),
		Clk:            res.clk,
		Syscall:        ctx.Syscall,
		Op:             s.op,
		XPtr:           arg1,
		X:              res.x,
		YPtr:           arg2,
		Y:              res.y,
		XMemoryRecords: res.xRecords,
		YMemoryRecords: res.yRecords,
		LocalMemAccess: res.local,
	})
	return 0, false, nil
}
