package precompiles

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
)

// Fp2AddSubSyscall adds or subtracts two quadratic extension elements
// coefficient-wise: x <- x op y.
type Fp2AddSubSyscall struct {
	params  FieldParams
	op      events.FieldOperation
	modulus *big.Int
	push    func(*events.ExecutionRecord, events.Fp2AddSubEvent)
}

// NewFp2AddSubSyscall creates the addition or subtraction precompile
func NewFp2AddSubSyscall(params FieldParams, op events.FieldOperation) (*Fp2AddSubSyscall, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field parameters: %w", err)
	}
	if op != events.FieldAdd && op != events.FieldSub {
		return nil, fmt.Errorf("fp2 add/sub does not support %s", op)
	}

	push := (*events.ExecutionRecord).AddBn254Fp2AddSubEvent
	if params.Type == events.FieldBls12381 {
		push = (*events.ExecutionRecord).AddBls12381Fp2AddSubEvent
	}

	return &Fp2AddSubSyscall{
		params:  params,
		op:      op,
		modulus: params.ModulusBig(),
		push:    push,
	}, nil
}

// NumExtraCycles returns the clock cost beyond the syscall instruction
func (s *Fp2AddSubSyscall) NumExtraCycles() uint32 {
	return 1
}

// Execute performs the operation and emits an Fp2AddSubEvent
func (s *Fp2AddSubSyscall) Execute(ctx *executor.SyscallContext, arg1, arg2 uint32) (uint32, bool, error) {
	op := binaryOperation{
		words:   2 * s.params.WordsPerElement,
		compute: func(x, y []uint32) []uint32 {
			a0, a1 := splitWords(x)
			b0, b1 := splitWords(y)
			c0 := fieldOp(s.op, a0, b0, s.modulus)
			c1 := fieldOp(s.op, a1, b1, s.modulus)
			return joinWords(c0, c1, s.params.WordsPerElement)
		},
	}

	res, err := op.run(ctx, arg1, arg2)
	if err != nil {
		return 0, false, fmt.Errorf("%s fp2 %s: %w", s.params.Type, s.op, err)
	}

	s.push(ctx.Record(), events.Fp2AddSubEvent{
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
