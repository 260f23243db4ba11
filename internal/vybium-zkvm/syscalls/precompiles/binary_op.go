package precompiles

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/executor"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// binaryOperation runs an in-place operation x <- f(x, y) over operands of
// words words each. y is read and reconciled first; x is taken without a
// record and accounted for by its write one cycle later.
type binaryOperation struct {
	words   int
	compute func(x, y []uint32) []uint32
}

type operationResult struct {
	clk      uint32
	x        []uint32
	y        []uint32
	xRecords []events.MemoryRecord
	yRecords []events.MemoryRecord
	local    []events.LocalMemoryAccess
}

func (op binaryOperation) run(ctx *executor.SyscallContext, xPtr, yPtr uint32) (*operationResult, error) {
	startClk := ctx.Clk

	if err := executor.CheckAligned(xPtr); err != nil {
		return nil, fmt.Errorf("x pointer: %w", err)
	}
	if err := executor.CheckAligned(yPtr); err != nil {
		return nil, fmt.Errorf("y pointer: %w", err)
	}

	x, err := ctx.UnsafeSlice(xPtr, op.words)
	if err != nil {
		return nil, err
	}

	yAddrs := executor.SliceAddrs(yPtr, op.words)
	if err := ctx.FlushPending(yAddrs); err != nil {
		return nil, fmt.Errorf("y operand: %w", err)
	}
	y, yRecords, err := ctx.ReadSlice(yPtr, op.words)
	if err != nil {
		return nil, fmt.Errorf("y operand: %w", err)
	}
	yLocal, err := ctx.ReconcileAndDrain(yAddrs)
	if err != nil {
		return nil, fmt.Errorf("y operand: %w", err)
	}

	ctx.AdvanceClock(1)

	result := op.compute(x, y)

	xAddrs := executor.SliceAddrs(xPtr, op.words)
	if err := ctx.FlushPending(xAddrs); err != nil {
		return nil, fmt.Errorf("x operand: %w", err)
	}
	xRecords, err := ctx.WriteSlice(xPtr, result)
	if err != nil {
		return nil, fmt.Errorf("x operand: %w", err)
	}
	xLocal, err := ctx.ReconcileAndDrain(xAddrs)
	if err != nil {
		return nil, fmt.Errorf("x operand: %w", err)
	}

	return &operationResult{
		clk:      startClk,
		x:        x,
		y:        y,
		xRecords: xRecords,
		yRecords: yRecords,
		local:    append(yLocal, xLocal...),
	}, nil
}

// splitWords interprets words as two equally sized little-endian halves
func splitWords(words []uint32) (*big.Int, *big.Int) {
	half := len(words) / 2
	return utils.WordsToBig(words[:half]), utils.WordsToBig(words[half:])
}

// joinWords lays out c0 and c1 each padded to n words
func joinWords(c0, c1 *big.Int, n int) []uint32 {
	out := make([]uint32, 0, 2*n)
	out = append(out, elementWords(c0, n)...)
	return append(out, elementWords(c1, n)...)
}
