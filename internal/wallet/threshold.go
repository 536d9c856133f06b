package wallet

import (
	"errors"
	"fmt"

	"github.com/zmlAEQ/govbls/internal/bls/bls381"
	"github.com/zmlAEQ/govbls/internal/bls/sig"
)

// The threshold scheme weights each member by a hash of the full membership
// set and keeps one helper point per member so any subset of size >= t can
// be verified with a single 3-pair pairing product. This is the documented
// ad-hoc construction of the original system, not a peer-reviewed
// threshold-BLS scheme; its soundness against adaptive key selection has
// not been validated. Do not reuse it outside this wallet.

var (
	ErrUnrecognizedSigner = errors.New("wallet: unrecognized signer")
	ErrInvalidSignature   = errors.New("wallet: member id point does not bind to helper")
)

// MemberRecord is created once at setup and never mutated.
type MemberRecord struct {
	Weight      bls381.Scalar
	HelperPoint []byte // weight * H(weight bytes) on the signature curve
	IDPoint     []byte // possession proof supplied at setup
}

type thresholdScheme struct {
	backend bls381.Backend
	mode    sig.Mode
	dst     []byte

	records      map[[32]byte]*MemberRecord // keyed by keccak256(raw pk bytes)
	aggregatedPK []byte                     // sum(weight_i * pk_i)
}

// MemberWeights derives the per-member weight scalars for a public-key set:
// weight_i = keccak256(dst || pk_i || pk_1 || ... || pk_n) mod r. Binding
// each weight to the whole set prevents weight reuse across groups.
func MemberWeights(dst []byte, pks [][]byte) []bls381.Scalar {
	joined := make([]byte, 0)
	for _, pk := range pks {
		joined = append(joined, pk...)
	}
	out := make([]bls381.Scalar, len(pks))
	for i, pk := range pks {
		h := keccak256(dst, pk, joined)
		out[i] = bls381.ScalarFromBytes(h[:])
	}
	return out
}

// MemberID computes the possession-proof point a member supplies at setup:
// secret * H(weight bytes) on the signature curve.
func MemberID(b bls381.Backend, mode sig.Mode, secret, weight bls381.Scalar, dst []byte) ([]byte, error) {
	h, err := sig.HashToSigCurve(b, mode, weight, dst)
	if err != nil {
		return nil, err
	}
	if mode == sig.ModePKOnG1 {
		return b.G2ScalarMul(bls381.G2(h), secret)
	}
	return b.G1ScalarMul(bls381.G1(h), secret)
}

// ThresholdSign produces one member's share for msg:
// weight * (secret * H(msg) + H(weight bytes)), all on the signature curve.
// Shares from any subset aggregate with sig.Aggregate.
func ThresholdSign(b bls381.Backend, mode sig.Mode, secret, weight bls381.Scalar, msg, dst []byte) ([]byte, error) {
	plain, err := sig.Sign(b, mode, secret, msg, dst)
	if err != nil {
		return nil, err
	}
	hw, err := sig.HashToSigCurve(b, mode, weight, dst)
	if err != nil {
		return nil, err
	}
	if mode == sig.ModePKOnG1 {
		s, err := b.G2Add(bls381.G2(plain), bls381.G2(hw))
		if err != nil {
			return nil, err
		}
		return b.G2ScalarMul(s, weight)
	}
	s, err := b.G1Add(bls381.G1(plain), bls381.G1(hw))
	if err != nil {
		return nil, err
	}
	return b.G1ScalarMul(s, weight)
}

// newThresholdScheme derives weights and helper points for the member set
// and runs the one-time setup integrity check binding every supplied
// IDPoint to its computed helper.
func newThresholdScheme(b bls381.Backend, mode sig.Mode, dst []byte, members []MemberKey) (*thresholdScheme, error) {
	pks := make([][]byte, len(members))
	for i, m := range members {
		pks[i] = m.PublicKey
	}
	weights := MemberWeights(dst, pks)

	t := &thresholdScheme{
		backend: b,
		mode:    mode,
		dst:     dst,
		records: make(map[[32]byte]*MemberRecord, len(members)),
	}
	for i, m := range members {
		if err := t.validatePK(m.PublicKey); err != nil {
			return nil, fmt.Errorf("%w: member %d", ErrInvalidPublicKey, i)
		}
		hw, err := sig.HashToSigCurve(b, mode, weights[i], dst)
		if err != nil {
			return nil, err
		}
		helper, err := t.sigCurveScalarMul(hw, weights[i])
		if err != nil {
			return nil, err
		}
		ok, err := t.checkMemberBinding(m.PublicKey, hw, m.IDPoint)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: member %d", ErrInvalidSignature, i)
		}
		key := keccak256(m.PublicKey)
		t.records[key] = &MemberRecord{
			Weight:      weights[i],
			HelperPoint: helper,
			IDPoint:     append([]byte(nil), m.IDPoint...),
		}
	}

	scalars := make([]bls381.Scalar, len(weights))
	copy(scalars, weights)
	aggPK, err := t.keyCurveMSM(pks, scalars)
	if err != nil {
		return nil, err
	}
	t.aggregatedPK = aggPK
	return t, nil
}

// checkMemberBinding verifies e(pk, H(w)) == e(G, id), i.e. that the
// supplied id point was produced with the secret key behind pk over the
// same hash the helper point is built from.
func (t *thresholdScheme) checkMemberBinding(pk, hw, id []byte) (bool, error) {
	if t.mode == sig.ModePKOnG1 {
		return bls381.PairingCheck(t.backend,
			[]bls381.G1{bls381.G1(pk), t.backend.NegG1Generator()},
			[]bls381.G2{bls381.G2(hw), bls381.G2(id)},
		)
	}
	return bls381.PairingCheck(t.backend,
		[]bls381.G1{bls381.G1(hw), bls381.G1(id)},
		[]bls381.G2{bls381.G2(pk), t.backend.NegG2Generator()},
	)
}

// record returns the member record for a raw public key.
func (t *thresholdScheme) record(pk []byte) (*MemberRecord, bool) {
	r, ok := t.records[keccak256(pk)]
	return r, ok
}

// distinctSigners counts distinct registered keys in the set, deduplicating
// by record key.
func (t *thresholdScheme) distinctSigners(signerPKs [][]byte) int {
	seen := make(map[[32]byte]struct{}, len(signerPKs))
	for _, pk := range signerPKs {
		seen[keccak256(pk)] = struct{}{}
	}
	return len(seen)
}

// verify checks an aggregate of threshold shares from the claimed signer
// subset with a 3-pair pairing product:
//
//	e(sum(w_i*pk_i), H(msg)) * e(-G, aggSig) * e(G, sum(helper_i)) == 1
//
// with sides mirrored by wallet mode. The threshold count itself is
// enforced by the ledger, not here.
func (t *thresholdScheme) verify(aggSig, msg []byte, signerPKs [][]byte) (bool, error) {
	if len(signerPKs) == 0 {
		return false, ErrUnrecognizedSigner
	}
	weights := make([]bls381.Scalar, 0, len(signerPKs))
	helpers := make([][]byte, 0, len(signerPKs))
	dedup := make(map[[32]byte]struct{}, len(signerPKs))
	pks := make([][]byte, 0, len(signerPKs))
	for _, pk := range signerPKs {
		rec, ok := t.record(pk)
		if !ok {
			return false, ErrUnrecognizedSigner
		}
		key := keccak256(pk)
		if _, dup := dedup[key]; dup {
			continue
		}
		dedup[key] = struct{}{}
		weights = append(weights, rec.Weight)
		helpers = append(helpers, rec.HelperPoint)
		pks = append(pks, pk)
	}

	weightedPK, err := t.keyCurveMSM(pks, weights)
	if err != nil {
		return false, err
	}
	helperSum, err := t.sigCurveSum(helpers)
	if err != nil {
		return false, err
	}
	hm, err := sig.HashToSigCurve(t.backend, t.mode, msg, t.dst)
	if err != nil {
		return false, err
	}

	if t.mode == sig.ModePKOnG1 {
		return bls381.PairingCheck(t.backend,
			[]bls381.G1{bls381.G1(weightedPK), t.backend.NegG1Generator(), t.backend.G1Generator()},
			[]bls381.G2{bls381.G2(hm), bls381.G2(aggSig), bls381.G2(helperSum)},
		)
	}
	return bls381.PairingCheck(t.backend,
		[]bls381.G1{bls381.G1(hm), bls381.G1(aggSig), bls381.G1(helperSum)},
		[]bls381.G2{bls381.G2(weightedPK), t.backend.NegG2Generator(), t.backend.G2Generator()},
	)
}

func (t *thresholdScheme) validatePK(pk []byte) error {
	if t.mode == sig.ModePKOnG1 {
		return t.backend.ValidateG1(bls381.G1(pk))
	}
	return t.backend.ValidateG2(bls381.G2(pk))
}

func (t *thresholdScheme) keyCurveMSM(pks [][]byte, scalars []bls381.Scalar) ([]byte, error) {
	if t.mode == sig.ModePKOnG1 {
		ps := make([]bls381.G1, len(pks))
		for i, p := range pks {
			ps[i] = bls381.G1(p)
		}
		return bls381.MultiScalarMulG1(t.backend, ps, scalars)
	}
	ps := make([]bls381.G2, len(pks))
	for i, p := range pks {
		ps[i] = bls381.G2(p)
	}
	return bls381.MultiScalarMulG2(t.backend, ps, scalars)
}

func (t *thresholdScheme) sigCurveSum(points [][]byte) ([]byte, error) {
	if t.mode == sig.ModePKOnG1 {
		ps := make([]bls381.G2, len(points))
		for i, p := range points {
			ps[i] = bls381.G2(p)
		}
		return bls381.SumG2(t.backend, ps)
	}
	ps := make([]bls381.G1, len(points))
	for i, p := range points {
		ps[i] = bls381.G1(p)
	}
	return bls381.SumG1(t.backend, ps)
}

func (t *thresholdScheme) sigCurveScalarMul(p []byte, s bls381.Scalar) ([]byte, error) {
	if t.mode == sig.ModePKOnG1 {
		return t.backend.G2ScalarMul(bls381.G2(p), s)
	}
	return t.backend.G1ScalarMul(bls381.G1(p), s)
}
