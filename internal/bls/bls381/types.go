// Package bls381 provides the byte-level types, group operations and
// pairing checks for BLS12-381 used by the governance wallet. Curve
// arithmetic is performed behind the Backend interface so a vetted pairing
// library (or an accelerated host primitive) can be swapped in; the default
// backend is software, built on gnark-crypto.
//
// Encodings are uncompressed big-endian:
//
//	Fp      64 bytes, value < p
//	Fp2     (c0, c1), 128 bytes as c0 || c1
//	G1      X || Y, 128 bytes; identity encodes as all zeros
//	G2      X.c0 || X.c1 || Y.c0 || Y.c1, 256 bytes; identity all zeros
//	Scalar  32 bytes, value < r
package bls381

const (
	FpSize     = 64
	G1Size     = 2 * FpSize
	G2Size     = 4 * FpSize
	ScalarSize = 32
)

type (
	// Fp is a base-field element, 64-byte big-endian, < p.
	Fp []byte
	// G1 is an uncompressed G1 point, 128 bytes.
	G1 []byte
	// G2 is an uncompressed G2 point, 256 bytes.
	G2 []byte
	// Scalar is a curve-order scalar, 32-byte big-endian, < r.
	Scalar []byte
)

// Fp2 is an extension-field element c0 + c1*u.
type Fp2 struct {
	C0 Fp
	C1 Fp
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// IsIdentityG1 reports whether p encodes the G1 group identity.
func IsIdentityG1(p G1) bool { return len(p) == G1Size && isZero(p) }

// IsIdentityG2 reports whether p encodes the G2 group identity.
func IsIdentityG2(p G2) bool { return len(p) == G2Size && isZero(p) }
