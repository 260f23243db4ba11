package bytes

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"
)

// commitBatchSize is the number of rows hashed by one goroutine
const commitBatchSize = 4096

// Commit returns the Merkle root over the hashed rows of the trace
func Commit(trace *PreprocessedTrace) (hash.Digest, error) {
	numRows := trace.Height()
	if numRows == 0 {
		return hash.Digest{}, fmt.Errorf("cannot commit to an empty byte table")
	}

	leaves := make([]hash.Digest, numRows)

	var wg sync.WaitGroup
	for start := 0; start < numRows; start += commitBatchSize {
		end := start + commitBatchSize
		if end > numRows {
			end = numRows
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for row := start; row < end; row++ {
				leaves[row] = hash.HashVarlen(trace.Row(row))
			}
		}(start, end)
	}
	wg.Wait()

	tree, err := merkle.New(leaves)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("failed to create Merkle tree: %w", err)
	}
	return tree.Root(), nil
}

// DigestBytes serializes a digest as little-endian 64-bit limbs
func DigestBytes(d hash.Digest) []byte {
	out := make([]byte, len(d)*8)
	for i, elem := range d {
		val := elem.Value()
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(val >> (j * 8))
		}
	}
	return out
}
