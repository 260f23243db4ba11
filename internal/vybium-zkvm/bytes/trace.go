package bytes

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// PreprocessedTrace is the byte table as a dense row-major matrix
//
// Columns (11):
//   - B, C: the input pair
//   - And, Or, Xor, Sll: bitwise results
//   - Shr, ShrCarry: right shift and the shifted-out bits
//   - Ltu, Msb: comparison and top bit
//   - ValueU16: (B << 8) + C
type PreprocessedTrace struct {
	Values []field.Element
	Width  int
}

// Height returns the number of rows
func (t *PreprocessedTrace) Height() int {
	return len(t.Values) / t.Width
}

// Row returns row i; the slice aliases the trace
func (t *PreprocessedTrace) Row(i int) []field.Element {
	return t.Values[i*t.Width : (i+1)*t.Width]
}

// Column returns a copy of column j
func (t *PreprocessedTrace) Column(j int) []field.Element {
	col := make([]field.Element, t.Height())
	for i := range col {
		col[i] = t.Values[i*t.Width+j]
	}
	return col
}

// GenerateTrace builds the preprocessed byte table. Rows are split into
// contiguous ranges, one per worker; each worker writes only its own range.
func GenerateTrace(cfg *utils.Config) (*PreprocessedTrace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	trace := &PreprocessedTrace{
		Values: make([]field.Element, NumRows*NumPreprocessedCols),
		Width:  NumPreprocessedCols,
	}

	workers := cfg.TableWorkers
	if workers > NumRows {
		workers = NumRows
	}
	batchSize := (NumRows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < NumRows; start += batchSize {
		end := start + batchSize
		if end > NumRows {
			end = NumRows
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fillRow(trace.Row(i), ComputeRow(uint8(i>>8), uint8(i)))
			}
		}(start, end)
	}
	wg.Wait()

	return trace, nil
}

func fillRow(dst []field.Element, row Row) {
	for j, v := range row.Columns() {
		dst[j] = field.New(v)
	}
}

// Verify recomputes every row of the trace and reports the first mismatch
func Verify(trace *PreprocessedTrace) error {
	if trace.Width != NumPreprocessedCols {
		return fmt.Errorf("byte table has %d columns, expected %d", trace.Width, NumPreprocessedCols)
	}
	if len(trace.Values) != NumRows*NumPreprocessedCols {
		return fmt.Errorf("byte table has %d rows, expected %d", trace.Height(), NumRows)
	}

	for i := 0; i < NumRows; i++ {
		want := ComputeRow(uint8(i>>8), uint8(i)).Columns()
		got := trace.Row(i)
		for j, v := range want {
			if got[j].Value() != v {
				return fmt.Errorf("byte table row %d column %d: got %d, expected %d", i, j, got[j].Value(), v)
			}
		}
	}
	return nil
}

// GenerateLookupEvents emits one event per (row, channel, opcode) to sink,
// in row-major order, and returns the number emitted. The full set is
// channels * NumByteOps * NumRows events, so it is streamed rather than
// collected.
func GenerateLookupEvents(shard, channels uint32, sink func(events.ByteLookupEvent)) int {
	opcodes := events.AllByteOpcodes()
	count := 0
	for i := 0; i < NumRows; i++ {
		row := ComputeRow(uint8(i>>8), uint8(i))
		for channel := uint32(0); channel < channels; channel++ {
			for _, op := range opcodes {
				sink(row.LookupEvent(shard, channel, op))
				count++
			}
		}
	}
	return count
}
