// Package precompiles implements the cryptographic syscalls of the executor
package precompiles

import (
	"fmt"
	"math/big"

	bls12381fp "github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	bn254fp "github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
)

// FieldParams describes the base field a field precompile operates in.
// Modulus is little-endian; an element occupies WordsPerElement words.
type FieldParams struct {
	Type            events.FieldType
	Modulus         []byte
	WordsPerElement int
}

// Bn254Params returns the BN254 base field parameters
func Bn254Params() FieldParams {
	return FieldParams{
		Type:            events.FieldBn254,
		Modulus:         utils.BigToLE(bn254fp.Modulus()),
		WordsPerElement: bn254fp.Bytes / utils.WordSize,
	}
}

// Bls12381Params returns the BLS12-381 base field parameters
func Bls12381Params() FieldParams {
	return FieldParams{
		Type:            events.FieldBls12381,
		Modulus:         utils.BigToLE(bls12381fp.Modulus()),
		WordsPerElement: bls12381fp.Bytes / utils.WordSize,
	}
}

// ParamsFor returns the parameters of a supported field
func ParamsFor(ft events.FieldType) (FieldParams, error) {
	switch ft {
	case events.FieldBn254:
		return Bn254Params(), nil
	case events.FieldBls12381:
		return Bls12381Params(), nil
	default:
		return FieldParams{}, fmt.Errorf("unsupported field type %d", ft)
	}
}

// ModulusBig returns the modulus as an integer
func (p FieldParams) ModulusBig() *big.Int {
	return utils.BigFromLE(p.Modulus)
}

// Validate checks that the modulus is usable and fits the element width
func (p FieldParams) Validate() error {
	if p.Type != events.FieldBn254 && p.Type != events.FieldBls12381 {
		return fmt.Errorf("unsupported field type %d", p.Type)
	}
	if p.WordsPerElement <= 0 {
		return fmt.Errorf("words per element must be positive")
	}

	m := p.ModulusBig()
	if m.Cmp(big.NewInt(2)) < 0 {
		return fmt.Errorf("field modulus must be at least 2")
	}
	if m.BitLen() > p.WordsPerElement*utils.WordSize*8 {
		return fmt.Errorf("field modulus has %d bits, more than %d words hold", m.BitLen(), p.WordsPerElement)
	}
	return nil
}

// elementWords returns x as exactly n little-endian words. x must fit.
func elementWords(x *big.Int, n int) []uint32 {
	words := utils.BigToWords(x)
	padded := make([]uint32, n)
	copy(padded, words)
	return padded
}
