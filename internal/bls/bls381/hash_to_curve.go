package bls381

import (
	"fmt"

	"github.com/zmlAEQ/govbls/internal/bls/fieldhash"
)

// HashToG1 hashes msg to a G1 point under dst: two field elements are
// derived with hash_to_field, mapped independently, and the candidates
// summed (cofactor clearing happens inside the map).
func HashToG1(b Backend, msg, dst []byte) (G1, error) {
	us, err := fieldhash.HashToField(msg, dst, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashToFpFailed, err)
	}
	if len(us) != 2 || len(us[0]) != FpSize || len(us[1]) != FpSize {
		return nil, ErrHashToFpFailed
	}
	p0, err := b.MapToG1(Fp(us[0]))
	if err != nil {
		return nil, err
	}
	p1, err := b.MapToG1(Fp(us[1]))
	if err != nil {
		return nil, err
	}
	return b.G1Add(p0, p1)
}

// HashToG2 is HashToG1 for G2, using pairs of field elements.
func HashToG2(b Backend, msg, dst []byte) (G2, error) {
	us, err := fieldhash.HashToField2(msg, dst, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashToFp2Failed, err)
	}
	if len(us) != 2 {
		return nil, ErrHashToFp2Failed
	}
	for _, u := range us {
		if len(u[0]) != FpSize || len(u[1]) != FpSize {
			return nil, ErrHashToFp2Failed
		}
	}
	p0, err := b.MapToG2(Fp2{C0: Fp(us[0][0]), C1: Fp(us[0][1])})
	if err != nil {
		return nil, err
	}
	p1, err := b.MapToG2(Fp2{C0: Fp(us[1][0]), C1: Fp(us[1][1])})
	if err != nil {
		return nil, err
	}
	return b.G2Add(p0, p1)
}
