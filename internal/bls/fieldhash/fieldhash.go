// Package fieldhash implements the RFC 9380 expand_message_xmd expander and
// hash_to_field for the BLS12-381 base field, with SHA-256 as the fixed
// inner hash. Field elements are produced as 64-byte big-endian strings
// reduced modulo p, matching the wallet wire encoding.
package fieldhash

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

const (
	hashSize  = sha256.Size // b_in_bytes
	blockSize = 64          // s_in_bytes for SHA-256

	// ElementSize is the byte length of one encoded base-field element.
	ElementSize = 64
)

var (
	ErrEllTooLarge    = errors.New("fieldhash: ell exceeds 255")
	ErrLengthTooLarge = errors.New("fieldhash: output length exceeds 65535")
	ErrDSTTooLong     = errors.New("fieldhash: dst exceeds 255 bytes")
)

var fpModulus = fp.Modulus()

// ExpandMessageXMD expands msg to lenInBytes uniform bytes under dst, per
// RFC 9380 section 5.3.1. It is a pure function of its inputs.
func ExpandMessageXMD(msg, dst []byte, lenInBytes int) ([]byte, error) {
	if lenInBytes > 65535 {
		return nil, ErrLengthTooLarge
	}
	if len(dst) > 255 {
		return nil, ErrDSTTooLong
	}
	ell := (lenInBytes + hashSize - 1) / hashSize
	if ell > 255 {
		return nil, ErrEllTooLarge
	}

	// DST' = DST || I2OSP(len(DST), 1)
	dstPrime := make([]byte, 0, len(dst)+1)
	dstPrime = append(dstPrime, dst...)
	dstPrime = append(dstPrime, byte(len(dst)))

	// b_0 = H(Z_pad || msg || l_i_b_str || 0x00 || DST')
	h := sha256.New()
	h.Write(make([]byte, blockSize))
	h.Write(msg)
	h.Write([]byte{byte(lenInBytes >> 8), byte(lenInBytes)})
	h.Write([]byte{0x00})
	h.Write(dstPrime)
	b0 := h.Sum(nil)

	// b_1 = H(b_0 || 0x01 || DST')
	h.Reset()
	h.Write(b0)
	h.Write([]byte{0x01})
	h.Write(dstPrime)
	bi := h.Sum(nil)

	out := make([]byte, 0, ell*hashSize)
	out = append(out, bi...)
	for i := 2; i <= ell; i++ {
		h.Reset()
		h.Write(xorBytes(b0, bi))
		h.Write([]byte{byte(i)})
		h.Write(dstPrime)
		bi = h.Sum(nil)
		out = append(out, bi...)
	}
	return out[:lenInBytes], nil
}

// HashToField hashes msg to count base-field elements, each returned as a
// 64-byte big-endian string strictly less than p.
func HashToField(msg, dst []byte, count int) ([][]byte, error) {
	uniform, err := ExpandMessageXMD(msg, dst, count*ElementSize)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, count)
	for i := 0; i < count; i++ {
		out[i] = reduce(uniform[i*ElementSize : (i+1)*ElementSize])
	}
	return out, nil
}

// HashToField2 hashes msg to count pairs of base-field elements, for building
// Fp2 values (c0, c1).
func HashToField2(msg, dst []byte, count int) ([][2][]byte, error) {
	uniform, err := ExpandMessageXMD(msg, dst, count*2*ElementSize)
	if err != nil {
		return nil, err
	}
	out := make([][2][]byte, count)
	for i := 0; i < count; i++ {
		base := i * 2 * ElementSize
		out[i][0] = reduce(uniform[base : base+ElementSize])
		out[i][1] = reduce(uniform[base+ElementSize : base+2*ElementSize])
	}
	return out, nil
}

func reduce(chunk []byte) []byte {
	v := new(big.Int).SetBytes(chunk)
	v.Mod(v, fpModulus)
	buf := make([]byte, ElementSize)
	v.FillBytes(buf)
	return buf
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
