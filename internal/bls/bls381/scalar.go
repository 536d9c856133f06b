package bls381

import "math/big"

// ScalarFromBytes reduces an arbitrary big-endian byte string modulo the
// curve order and returns the 32-byte scalar encoding.
func ScalarFromBytes(b []byte) Scalar {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, frModulus)
	out := make([]byte, ScalarSize)
	v.FillBytes(out)
	return Scalar(out)
}
