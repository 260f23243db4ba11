package utils

import "math/big"

// WordSize is the width of a memory word in bytes
const WordSize = 4

// CyclesPerInstruction is the clock step between two interpreted instructions
const CyclesPerInstruction = 4

// IsPowerOfTwo checks if a number is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 computes the base-2 logarithm of a power of 2
func Log2(n int) int {
	if !IsPowerOfTwo(n) {
		return -1
	}

	result := 0
	for n > 1 {
		n >>= 1
		result++
	}
	return result
}

// IsAligned reports whether addr is a multiple of the word size
func IsAligned(addr uint32) bool {
	return addr%WordSize == 0
}

// WordsToBig assembles little-endian 32-bit words into an unsigned integer
func WordsToBig(words []uint32) *big.Int {
	buf := make([]byte, len(words)*WordSize)
	for i, w := range words {
		// big.Int wants big-endian bytes
		off := len(buf) - (i+1)*WordSize
		buf[off] = byte(w >> 24)
		buf[off+1] = byte(w >> 16)
		buf[off+2] = byte(w >> 8)
		buf[off+3] = byte(w)
	}
	return new(big.Int).SetBytes(buf)
}

// BigToWords returns the minimal little-endian word decomposition of x.
// Zero decomposes to no words.
func BigToWords(x *big.Int) []uint32 {
	b := x.Bytes()
	words := make([]uint32, 0, (len(b)+WordSize-1)/WordSize)
	for end := len(b); end > 0; end -= WordSize {
		start := end - WordSize
		if start < 0 {
			start = 0
		}
		var w uint32
		for _, v := range b[start:end] {
			w = w<<8 | uint32(v)
		}
		words = append(words, w)
	}
	return words
}

// BigFromLE interprets b as a little-endian unsigned integer
func BigFromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// BigToLE returns the little-endian byte encoding of x
func BigToLE(x *big.Int) []byte {
	be := x.Bytes()
	le := make([]byte, len(be))
	for i, v := range be {
		le[len(be)-1-i] = v
	}
	return le
}
