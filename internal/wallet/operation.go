package wallet

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Address identifies an operation target or a caller.
type Address [20]byte

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == Address{} }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// Hash is an operation content hash.
type Hash [32]byte

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// Status is the lifecycle state of an operation.
type Status uint8

const (
	StatusNone Status = iota
	StatusPending
	StatusApproved
	StatusRejected
	StatusExecuting
	StatusExecuted
	StatusFailed
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusExecuting:
		return "executing"
	case StatusExecuted:
		return "executed"
	case StatusFailed:
		return "failed"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusExecuted, StatusFailed, StatusExpired:
		return true
	}
	return false
}

// Operation is one governed action. Identity is the content hash, which
// covers everything except Status, AggregatedSig, SignerSet and
// HashCheckCode.
type Operation struct {
	Target         Address
	Value          *big.Int
	EffectiveTime  uint64 // unix seconds; execute is legal from this instant
	ExpirationTime uint64 // unix seconds; execute past this expires the op
	GasLimit       uint64
	Nonce          uint64
	HashCheckCode  [8]byte
	Payload        []byte

	Status        Status
	AggregatedSig []byte   // optional inline signature at submit time
	SignerSet     [][]byte // raw signer public keys, threshold mode only
}

// ContentHash is the keccak-256 identity of the operation's immutable
// content.
func (op *Operation) ContentHash() Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(op.Target[:])
	val := make([]byte, 32)
	if op.Value != nil {
		op.Value.FillBytes(val)
	}
	h.Write(val)
	var buf [8]byte
	for _, v := range []uint64{op.EffectiveTime, op.ExpirationTime, op.GasLimit, op.Nonce, uint64(len(op.Payload))} {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	h.Write(op.Payload)
	var out Hash
	h.Sum(out[:0])
	return out
}

// CheckCode returns the low 8 bytes of the content hash, the value expected
// in HashCheckCode.
func (op *Operation) CheckCode() [8]byte {
	h := op.ContentHash()
	var code [8]byte
	copy(code[:], h[24:])
	return code
}

// SealHashCheck fills HashCheckCode from the current content. Intended for
// operation builders and tests.
func (op *Operation) SealHashCheck() { op.HashCheckCode = op.CheckCode() }

func keccak256(chunks ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
