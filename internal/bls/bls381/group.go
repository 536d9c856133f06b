package bls381

import "fmt"

// SumG1 left-folds point addition over points. The result is independent of
// input order. Fails on an empty input and when the backend rejects any
// operand.
func SumG1(b Backend, points []G1) (G1, error) {
	if len(points) == 0 {
		return nil, ErrEmptyPointsToSum
	}
	acc := points[0]
	if err := b.ValidateG1(acc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSumPointsFailed, err)
	}
	for _, p := range points[1:] {
		next, err := b.G1Add(acc, p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSumPointsFailed, err)
		}
		acc = next
	}
	return acc, nil
}

// SumG2 is SumG1 for G2 points.
func SumG2(b Backend, points []G2) (G2, error) {
	if len(points) == 0 {
		return nil, ErrEmptyPointsToSum
	}
	acc := points[0]
	if err := b.ValidateG2(acc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSumPointsFailed, err)
	}
	for _, p := range points[1:] {
		next, err := b.G2Add(acc, p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSumPointsFailed, err)
		}
		acc = next
	}
	return acc, nil
}

// MultiScalarMulG1 computes sum(scalars[i] * points[i]).
func MultiScalarMulG1(b Backend, points []G1, scalars []Scalar) (G1, error) {
	if len(points) != len(scalars) {
		return nil, ErrLengthMismatch
	}
	return b.G1MultiScalarMul(points, scalars)
}

// MultiScalarMulG2 computes sum(scalars[i] * points[i]).
func MultiScalarMulG2(b Backend, points []G2, scalars []Scalar) (G2, error) {
	if len(points) != len(scalars) {
		return nil, ErrLengthMismatch
	}
	return b.G2MultiScalarMul(points, scalars)
}

// PairingCheck reports whether the product of pairings over the given pairs
// is the identity in GT.
func PairingCheck(b Backend, g1s []G1, g2s []G2) (bool, error) {
	if len(g1s) != len(g2s) {
		return false, ErrLengthMismatch
	}
	return b.PairingCheck(g1s, g2s)
}
