package fieldhash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

// Vectors from RFC 9380 appendix K.1 (expand_message_xmd, SHA-256).
const rfcDST = "QUUX-V01-CS02-with-expander-SHA256-128"

func TestExpandMessageXMD_RFCVectors(t *testing.T) {
	cases := []struct {
		msg  string
		n    int
		want string
	}{
		{"", 0x20, "68a985b87eb6b46952128911f2a4412bbc302a9d759667f87f7a21d803f07235"},
		{"abc", 0x20, "d8ccab23b5985ccea865c6c97b6e5b8350e794e603b4b97902f53a8a0d605615"},
		{"abcdef0123456789", 0x20, "eff31487c770a893cfb36f912fbfcbff40d5661771ca4b2cb4eafe524333f5c1"},
		{"q128_" + strings.Repeat("q", 128), 0x20, "b23a1d2b4d97b2ef7785562a7e8bac7eed54ed6e97e29aa51bfe3f12ddad1ff9"},
		{"a512_" + strings.Repeat("a", 512), 0x20, "4623227bcc01293b8c130bf771da8c298dede7383243dc0993d2d94823958c4c"},
		{"", 0x80, "af84c27ccfd45d41914fdff5df25293e221afc53d8ad2ac06d5e3e29485dadbe" +
			"e0d121587713a3e0dd4d5e69e93eb7cd4f5df4cd103e188cf60cb02edc3edf18" +
			"eda8576c412b18ffb658e3dd6ec849469b979d444cf7b26911a08e63cf31f9dc" +
			"c541708d3491184472c2c29bb749d4286b004ceb5ee6b9a7fa5b646c993f0ced"},
	}
	for _, tc := range cases {
		got, err := ExpandMessageXMD([]byte(tc.msg), []byte(rfcDST), tc.n)
		if err != nil {
			t.Fatalf("expand(%q, %d): %v", tc.msg, tc.n, err)
		}
		if hex.EncodeToString(got) != tc.want {
			t.Fatalf("expand(%q, %d) = %x, want %s", tc.msg, tc.n, got, tc.want)
		}
	}
}

func TestExpandMessageXMD_Limits(t *testing.T) {
	if _, err := ExpandMessageXMD([]byte("m"), []byte("dst"), 65536); !errors.Is(err, ErrLengthTooLarge) {
		t.Fatalf("want ErrLengthTooLarge, got %v", err)
	}
	if _, err := ExpandMessageXMD([]byte("m"), bytes.Repeat([]byte{0x44}, 256), 32); !errors.Is(err, ErrDSTTooLong) {
		t.Fatalf("want ErrDSTTooLong, got %v", err)
	}
	// 255*32+1 bytes needs ell=256
	if _, err := ExpandMessageXMD([]byte("m"), []byte("dst"), 255*hashSize+1); !errors.Is(err, ErrEllTooLarge) {
		t.Fatalf("want ErrEllTooLarge, got %v", err)
	}
	// boundary: exactly ell=255 is fine
	if _, err := ExpandMessageXMD([]byte("m"), []byte("dst"), 255*hashSize); err != nil {
		t.Fatalf("ell=255 should succeed: %v", err)
	}
}

func TestExpandMessageXMD_Deterministic(t *testing.T) {
	a, err := ExpandMessageXMD([]byte("msg"), []byte("dst"), 96)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ExpandMessageXMD([]byte("msg"), []byte("dst"), 96)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("identical inputs produced different output")
	}
}

func TestHashToField(t *testing.T) {
	p := fp.Modulus()
	els, err := HashToField([]byte("msg"), []byte("dst"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(els) != 3 {
		t.Fatalf("got %d elements, want 3", len(els))
	}
	for i, el := range els {
		if len(el) != ElementSize {
			t.Fatalf("element %d has %d bytes", i, len(el))
		}
		if new(big.Int).SetBytes(el).Cmp(p) >= 0 {
			t.Fatalf("element %d >= p", i)
		}
	}

	again, err := HashToField([]byte("msg"), []byte("dst"), 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range els {
		if !bytes.Equal(els[i], again[i]) {
			t.Fatalf("element %d not deterministic", i)
		}
	}

	other, err := HashToField([]byte("msg"), []byte("dst2"), 3)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(els[0], other[0]) {
		t.Fatal("changing dst did not change output")
	}
}

func TestHashToField2(t *testing.T) {
	p := fp.Modulus()
	els, err := HashToField2([]byte("msg"), []byte("dst"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(els) != 2 {
		t.Fatalf("got %d pairs, want 2", len(els))
	}
	for i, pair := range els {
		for j, el := range pair {
			if len(el) != ElementSize {
				t.Fatalf("pair %d[%d] has %d bytes", i, j, len(el))
			}
			if new(big.Int).SetBytes(el).Cmp(p) >= 0 {
				t.Fatalf("pair %d[%d] >= p", i, j)
			}
		}
	}
	if bytes.Equal(els[0][0], els[0][1]) {
		t.Fatal("c0 and c1 should differ")
	}
}
