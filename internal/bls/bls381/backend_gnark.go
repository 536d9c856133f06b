package bls381

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// gnarkBackend is the default software backend, built on gnark-crypto.
type gnarkBackend struct{}

// NewGnarkBackend returns the software curve backend.
func NewGnarkBackend() Backend { return gnarkBackend{} }

// Default is the process-wide software backend.
func Default() Backend { return gnarkBackend{} }

var (
	fpModulus = fp.Modulus()
	frModulus = fr.Modulus()

	g1Gen, g2Gen       = generators()
	negG1Gen, negG2Gen = negGenerators()

	// e2Zero only exists to obtain a value of the (internal) E2 type for
	// building MapToG2 inputs.
	e2Zero = bls12381.G2Affine{}.X
)

func generators() (bls12381.G1Affine, bls12381.G2Affine) {
	_, _, g1, g2 := bls12381.Generators()
	return g1, g2
}

func negGenerators() (bls12381.G1Affine, bls12381.G2Affine) {
	g1, g2 := generators()
	g1.Neg(&g1)
	g2.Neg(&g2)
	return g1, g2
}

func decodeFp(b []byte) (fp.Element, error) {
	var el fp.Element
	if len(b) != FpSize {
		return el, ErrInvalidFieldElement
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(fpModulus) >= 0 {
		return el, ErrInvalidFieldElement
	}
	el.SetBigInt(v)
	return el, nil
}

func encodeFp(el *fp.Element) []byte {
	buf := make([]byte, FpSize)
	el.BigInt(new(big.Int)).FillBytes(buf)
	return buf
}

func decodeG1(p G1) (bls12381.G1Affine, error) {
	var aff bls12381.G1Affine
	if len(p) != G1Size {
		return aff, ErrInvalidPoint
	}
	if isZero(p) {
		aff.X.SetZero()
		aff.Y.SetZero() // affine (0,0) is the gnark point at infinity
		return aff, nil
	}
	x, err := decodeFp(p[:FpSize])
	if err != nil {
		return aff, err
	}
	y, err := decodeFp(p[FpSize:])
	if err != nil {
		return aff, err
	}
	aff.X, aff.Y = x, y
	if !aff.IsOnCurve() || !aff.IsInSubGroup() {
		return aff, ErrInvalidPoint
	}
	return aff, nil
}

func encodeG1(aff *bls12381.G1Affine) G1 {
	out := make([]byte, G1Size)
	if aff.IsInfinity() {
		return out
	}
	copy(out[:FpSize], encodeFp(&aff.X))
	copy(out[FpSize:], encodeFp(&aff.Y))
	return out
}

func decodeG2(p G2) (bls12381.G2Affine, error) {
	var aff bls12381.G2Affine
	if len(p) != G2Size {
		return aff, ErrInvalidPoint
	}
	if isZero(p) {
		return aff, nil // zero value is the point at infinity
	}
	coords := make([]fp.Element, 4)
	for i := range coords {
		el, err := decodeFp(p[i*FpSize : (i+1)*FpSize])
		if err != nil {
			return aff, err
		}
		coords[i] = el
	}
	aff.X.A0, aff.X.A1 = coords[0], coords[1]
	aff.Y.A0, aff.Y.A1 = coords[2], coords[3]
	if !aff.IsOnCurve() || !aff.IsInSubGroup() {
		return aff, ErrInvalidPoint
	}
	return aff, nil
}

func encodeG2(aff *bls12381.G2Affine) G2 {
	out := make([]byte, G2Size)
	if aff.IsInfinity() {
		return out
	}
	copy(out[0*FpSize:], encodeFp(&aff.X.A0))
	copy(out[1*FpSize:], encodeFp(&aff.X.A1))
	copy(out[2*FpSize:], encodeFp(&aff.Y.A0))
	copy(out[3*FpSize:], encodeFp(&aff.Y.A1))
	return out
}

func decodeScalar(s Scalar) (*big.Int, error) {
	if len(s) != ScalarSize {
		return nil, ErrInvalidScalar
	}
	v := new(big.Int).SetBytes(s)
	if v.Cmp(frModulus) >= 0 {
		return nil, ErrInvalidScalar
	}
	return v, nil
}

func (gnarkBackend) MapToG1(u Fp) (G1, error) {
	el, err := decodeFp(u)
	if err != nil {
		return nil, err
	}
	aff := bls12381.MapToG1(el)
	return encodeG1(&aff), nil
}

func (gnarkBackend) MapToG2(u Fp2) (G2, error) {
	c0, err := decodeFp(u.C0)
	if err != nil {
		return nil, err
	}
	c1, err := decodeFp(u.C1)
	if err != nil {
		return nil, err
	}
	e2 := e2Zero
	e2.A0, e2.A1 = c0, c1
	aff := bls12381.MapToG2(e2)
	return encodeG2(&aff), nil
}

func (gnarkBackend) G1Add(a, b G1) (G1, error) {
	pa, err := decodeG1(a)
	if err != nil {
		return nil, err
	}
	pb, err := decodeG1(b)
	if err != nil {
		return nil, err
	}
	var j bls12381.G1Jac
	j.FromAffine(&pa)
	j.AddMixed(&pb)
	var r bls12381.G1Affine
	r.FromJacobian(&j)
	return encodeG1(&r), nil
}

func (gnarkBackend) G2Add(a, b G2) (G2, error) {
	pa, err := decodeG2(a)
	if err != nil {
		return nil, err
	}
	pb, err := decodeG2(b)
	if err != nil {
		return nil, err
	}
	var j bls12381.G2Jac
	j.FromAffine(&pa)
	j.AddMixed(&pb)
	var r bls12381.G2Affine
	r.FromJacobian(&j)
	return encodeG2(&r), nil
}

func (gnarkBackend) G1ScalarMul(p G1, s Scalar) (G1, error) {
	aff, err := decodeG1(p)
	if err != nil {
		return nil, err
	}
	v, err := decodeScalar(s)
	if err != nil {
		return nil, err
	}
	var r bls12381.G1Affine
	r.ScalarMultiplication(&aff, v)
	return encodeG1(&r), nil
}

func (gnarkBackend) G2ScalarMul(p G2, s Scalar) (G2, error) {
	aff, err := decodeG2(p)
	if err != nil {
		return nil, err
	}
	v, err := decodeScalar(s)
	if err != nil {
		return nil, err
	}
	var r bls12381.G2Affine
	r.ScalarMultiplication(&aff, v)
	return encodeG2(&r), nil
}

func (gnarkBackend) G1ScalarBaseMul(s Scalar) (G1, error) {
	v, err := decodeScalar(s)
	if err != nil {
		return nil, err
	}
	var r bls12381.G1Affine
	r.ScalarMultiplicationBase(v)
	return encodeG1(&r), nil
}

func (gnarkBackend) G2ScalarBaseMul(s Scalar) (G2, error) {
	v, err := decodeScalar(s)
	if err != nil {
		return nil, err
	}
	var r bls12381.G2Affine
	r.ScalarMultiplicationBase(v)
	return encodeG2(&r), nil
}

func (gnarkBackend) G1MultiScalarMul(points []G1, scalars []Scalar) (G1, error) {
	if len(points) != len(scalars) || len(points) == 0 {
		return nil, ErrLengthMismatch
	}
	affs := make([]bls12381.G1Affine, len(points))
	frs := make([]fr.Element, len(scalars))
	for i := range points {
		aff, err := decodeG1(points[i])
		if err != nil {
			return nil, err
		}
		affs[i] = aff
		v, err := decodeScalar(scalars[i])
		if err != nil {
			return nil, err
		}
		frs[i].SetBigInt(v)
	}
	var r bls12381.G1Affine
	if _, err := r.MultiExp(affs, frs, ecc.MultiExpConfig{}); err != nil {
		return nil, err
	}
	return encodeG1(&r), nil
}

func (gnarkBackend) G2MultiScalarMul(points []G2, scalars []Scalar) (G2, error) {
	if len(points) != len(scalars) || len(points) == 0 {
		return nil, ErrLengthMismatch
	}
	affs := make([]bls12381.G2Affine, len(points))
	frs := make([]fr.Element, len(scalars))
	for i := range points {
		aff, err := decodeG2(points[i])
		if err != nil {
			return nil, err
		}
		affs[i] = aff
		v, err := decodeScalar(scalars[i])
		if err != nil {
			return nil, err
		}
		frs[i].SetBigInt(v)
	}
	var r bls12381.G2Affine
	if _, err := r.MultiExp(affs, frs, ecc.MultiExpConfig{}); err != nil {
		return nil, err
	}
	return encodeG2(&r), nil
}

func (gnarkBackend) PairingCheck(g1s []G1, g2s []G2) (bool, error) {
	if len(g1s) != len(g2s) || len(g1s) == 0 {
		return false, ErrLengthMismatch
	}
	ps := make([]bls12381.G1Affine, len(g1s))
	qs := make([]bls12381.G2Affine, len(g2s))
	for i := range g1s {
		p, err := decodeG1(g1s[i])
		if err != nil {
			return false, err
		}
		q, err := decodeG2(g2s[i])
		if err != nil {
			return false, err
		}
		ps[i], qs[i] = p, q
	}
	return bls12381.PairingCheck(ps, qs)
}

func (gnarkBackend) G1Generator() G1    { return encodeG1(&g1Gen) }
func (gnarkBackend) G2Generator() G2    { return encodeG2(&g2Gen) }
func (gnarkBackend) NegG1Generator() G1 { return encodeG1(&negG1Gen) }
func (gnarkBackend) NegG2Generator() G2 { return encodeG2(&negG2Gen) }

func (gnarkBackend) ValidateG1(p G1) error {
	_, err := decodeG1(p)
	return err
}

func (gnarkBackend) ValidateG2(p G2) error {
	_, err := decodeG2(p)
	return err
}

func (gnarkBackend) ValidateScalar(s Scalar) error {
	_, err := decodeScalar(s)
	return err
}
