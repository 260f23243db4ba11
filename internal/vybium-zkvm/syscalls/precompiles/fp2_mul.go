package precompiles

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
)

// Fp2MulSyscall multiplies two elements of the quadratic extension
// Fp[i]/(i^2 + 1): x <- x * y, with x at arg1 and y at arg2. Each operand
// is c0 followed by c1, each WordsPerElement little-endian words.
type Fp2MulSyscall struct {
	params  FieldParams
	modulus *big.Int
	push    func(*events.ExecutionRecord, events.Fp2MulEvent)
}

// NewFp2MulSyscall creates the multiplication precompile for a field. The
// field type fixes the event collection here, once.
func NewFp2MulSyscall(params FieldParams) (*Fp2MulSyscall, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field parameters: %w", err)
	}

	var push func(*events.ExecutionRecord, events.Fp2MulEvent)
	switch params.Type {
	case events.FieldBn254:
		push = (*events.ExecutionRecord).AddBn254Fp2MulEvent
	case events.FieldBls12381:
		push = (*events.ExecutionRecord).AddBls12381Fp2MulEvent
	}

	return &Fp2MulSyscall{
		params:  params,
		modulus: params.ModulusBig(),
		push:    push,
	}, nil
}

// NumExtraCycles returns the clock cost beyond the syscall instruction
func (s *Fp2MulSyscall) NumExtraCycles() uint32 {
	return 1
}

// Fp2Mul computes (a0 + a1 i)(b0 + b1 i) mod p without negative
// intermediates: c0 = a0 b0 - a1 b1, c1 = a0 b1 + a1 b0.
func Fp2Mul(a0, a1, b0, b1, p *big.Int) (*big.Int, *big.Int) {
	t0 := new(big.Int).Mul(a0, b0)
	t0.Mod(t0, p)
	t1 := new(big.Int).Mul(a1, b1)
	t1.Mod(t1, p)

	c0 := new(big.Int)
	if t0.Cmp(t1) < 0 {
		c0.Add(p, t0)
		c0.Sub(c0, t1)
	} else {
		c0.Sub(t0, t1)
	}
	c0.Mod(c0, p)

	u0 := new(big.Int).Mul(a0, b1)
	u0.Mod(u0, p)
	u1 := new(big.Int).Mul(a1, b0)
	u1.Mod(u1, p)
	c1 := u0.Add(u0, u1)
	c1.Mod(c1, p)

	return c0, c1
}

// Execute performs the multiplication and emits an Fp2MulEvent
func (s *Fp2MulSyscall) Execute(ctx *executor.SyscallContext, arg1, arg2 uint32) (uint32, bool, error) {
	op := binaryOperation{
		words:   2 * s.params.WordsPerElement,
		compute: func(x, y []uint32) []uint32 {
			a0, a1 := splitWords(x)
			b0, b1 := splitWords(y)
			c0, c1 := Fp2Mul(a0, a1, b0, b1, s.modulus)
			return joinWords(c0, c1, s.params.WordsPerElement)
		},
	}

	res, err := op.run(ctx, arg1, arg2)
	if err != nil {
		return 0, false, fmt.Errorf("%s fp2 mul: %w", s.params.Type, err)
	}

	s.push(ctx.Record(), events.Fp2MulEvent{
		LookupID:       ctx.LookupID,
		Shard:          ctx.Shard(),
		Channel:        ctx.Channel(),
		Clk:            res.clk,
		Syscall:        ctx.Syscall,
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
