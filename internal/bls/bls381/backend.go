package bls381

// Backend performs the raw curve arithmetic. All inputs and outputs use the
// package byte encodings; implementations must reject malformed encodings
// and points outside the prime-order subgroup.
type Backend interface {
	// MapToG1 maps a base-field element to a G1 point, cofactor cleared.
	MapToG1(u Fp) (G1, error)
	// MapToG2 maps an extension-field element to a G2 point, cofactor cleared.
	MapToG2(u Fp2) (G2, error)

	G1Add(a, b G1) (G1, error)
	G2Add(a, b G2) (G2, error)

	G1ScalarMul(p G1, s Scalar) (G1, error)
	G2ScalarMul(p G2, s Scalar) (G2, error)
	G1ScalarBaseMul(s Scalar) (G1, error)
	G2ScalarBaseMul(s Scalar) (G2, error)

	// G1MultiScalarMul computes sum(scalars[i] * points[i]). Lengths must
	// match and be non-zero; a zero scalar contributes the identity.
	G1MultiScalarMul(points []G1, scalars []Scalar) (G1, error)
	G2MultiScalarMul(points []G2, scalars []Scalar) (G2, error)

	// PairingCheck reports whether the product of pairings e(g1s[i], g2s[i])
	// equals the identity in GT.
	PairingCheck(g1s []G1, g2s []G2) (bool, error)

	G1Generator() G1
	G2Generator() G2
	NegG1Generator() G1
	NegG2Generator() G2

	ValidateG1(p G1) error
	ValidateG2(p G2) error
	ValidateScalar(s Scalar) error
}
