package bls381

import "errors"

var (
	ErrInvalidFieldElement = errors.New("bls381: invalid field element")
	ErrInvalidPoint        = errors.New("bls381: point not on curve or subgroup")
	ErrInvalidScalar       = errors.New("bls381: invalid scalar")

	ErrEmptyPointsToSum = errors.New("bls381: empty points to sum")
	ErrSumPointsFailed  = errors.New("bls381: sum points failed")
	ErrLengthMismatch   = errors.New("bls381: points/scalars length mismatch")

	ErrHashToFpFailed  = errors.New("bls381: hash to fp failed")
	ErrHashToFp2Failed = errors.New("bls381: hash to fp2 failed")
)
