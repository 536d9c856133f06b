// Package sig implements BLS signing, aggregation and verification over the
// bls381 backend. Signatures live on the curve opposite the public-key
// curve; the wallet fixes one Mode at construction.
package sig

import (
	"errors"

	"github.com/zmlAEQ/govbls/internal/bls/bls381"
)

// Mode selects which group holds public keys.
type Mode int

const (
	// ModePKOnG1: public key 128 bytes on G1, signature 256 bytes on G2.
	ModePKOnG1 Mode = iota + 1
	// ModePKOnG2: public key 256 bytes on G2, signature 128 bytes on G1.
	ModePKOnG2
)

var (
	ErrInvalidMode      = errors.New("sig: invalid wallet mode")
	ErrInvalidPublicKey = errors.New("sig: invalid public key")
	ErrInvalidSignature = errors.New("sig: invalid signature")
)

func (m Mode) Valid() bool { return m == ModePKOnG1 || m == ModePKOnG2 }

func (m Mode) String() string {
	switch m {
	case ModePKOnG1:
		return "pk-on-g1"
	case ModePKOnG2:
		return "pk-on-g2"
	default:
		return "invalid"
	}
}

// PubKeySize is the encoded public-key length for the mode.
func (m Mode) PubKeySize() int {
	if m == ModePKOnG1 {
		return bls381.G1Size
	}
	return bls381.G2Size
}

// SigSize is the encoded signature length for the mode.
func (m Mode) SigSize() int {
	if m == ModePKOnG1 {
		return bls381.G2Size
	}
	return bls381.G1Size
}

// KeyPair holds a secret scalar and its public point. A wallet instance only
// ever sees public keys of a single mode.
type KeyPair struct {
	Mode   Mode
	Secret bls381.Scalar
	Public []byte
}

// NewKeyPair derives the public key for secret on the mode's key curve.
func NewKeyPair(b bls381.Backend, mode Mode, secret bls381.Scalar) (KeyPair, error) {
	if !mode.Valid() {
		return KeyPair{}, ErrInvalidMode
	}
	if err := b.ValidateScalar(secret); err != nil {
		return KeyPair{}, err
	}
	var pub []byte
	var err error
	if mode == ModePKOnG1 {
		var p bls381.G1
		p, err = b.G1ScalarBaseMul(secret)
		pub = p
	} else {
		var p bls381.G2
		p, err = b.G2ScalarBaseMul(secret)
		pub = p
	}
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Mode: mode, Secret: secret, Public: pub}, nil
}

// HashToSigCurve hashes msg onto the signature curve for the mode.
func HashToSigCurve(b bls381.Backend, mode Mode, msg, dst []byte) ([]byte, error) {
	if mode == ModePKOnG1 {
		p, err := bls381.HashToG2(b, msg, dst)
		return p, err
	}
	p, err := bls381.HashToG1(b, msg, dst)
	return p, err
}

// Sign produces secret * H(msg) on the signature curve.
func Sign(b bls381.Backend, mode Mode, secret bls381.Scalar, msg, dst []byte) ([]byte, error) {
	h, err := HashToSigCurve(b, mode, msg, dst)
	if err != nil {
		return nil, err
	}
	if mode == ModePKOnG1 {
		return b.G2ScalarMul(bls381.G2(h), secret)
	}
	return b.G1ScalarMul(bls381.G1(h), secret)
}

// Aggregate sums signatures. Order-independent; the aggregate of a single
// signature is that signature.
func Aggregate(b bls381.Backend, mode Mode, sigs [][]byte) ([]byte, error) {
	if mode == ModePKOnG1 {
		ps := make([]bls381.G2, len(sigs))
		for i, s := range sigs {
			ps[i] = bls381.G2(s)
		}
		return bls381.SumG2(b, ps)
	}
	ps := make([]bls381.G1, len(sigs))
	for i, s := range sigs {
		ps[i] = bls381.G1(s)
	}
	return bls381.SumG1(b, ps)
}

// AggregatePubKeys sums public keys on the mode's key curve.
func AggregatePubKeys(b bls381.Backend, mode Mode, pks [][]byte) ([]byte, error) {
	if mode == ModePKOnG1 {
		ps := make([]bls381.G1, len(pks))
		for i, p := range pks {
			ps[i] = bls381.G1(p)
		}
		return bls381.SumG1(b, ps)
	}
	ps := make([]bls381.G2, len(pks))
	for i, p := range pks {
		ps[i] = bls381.G2(p)
	}
	return bls381.SumG2(b, ps)
}

// Verify checks sig against pk and msg with a two-pairing product using one
// negated generator:
//
//	pk on G1:  e(-G1, sig) * e(pk, H(msg)) == 1
//	pk on G2:  e(sig, -G2) * e(H(msg), pk) == 1
func Verify(b bls381.Backend, mode Mode, sigBytes, pk []byte, msg, dst []byte) (bool, error) {
	h, err := HashToSigCurve(b, mode, msg, dst)
	if err != nil {
		return false, err
	}
	if mode == ModePKOnG1 {
		if err := b.ValidateG1(bls381.G1(pk)); err != nil {
			return false, ErrInvalidPublicKey
		}
		if err := b.ValidateG2(bls381.G2(sigBytes)); err != nil {
			return false, ErrInvalidSignature
		}
		return bls381.PairingCheck(b,
			[]bls381.G1{b.NegG1Generator(), bls381.G1(pk)},
			[]bls381.G2{bls381.G2(sigBytes), bls381.G2(h)},
		)
	}
	if err := b.ValidateG2(bls381.G2(pk)); err != nil {
		return false, ErrInvalidPublicKey
	}
	if err := b.ValidateG1(bls381.G1(sigBytes)); err != nil {
		return false, ErrInvalidSignature
	}
	return bls381.PairingCheck(b,
		[]bls381.G1{bls381.G1(sigBytes), bls381.G1(h)},
		[]bls381.G2{b.NegG2Generator(), bls381.G2(pk)},
	)
}
