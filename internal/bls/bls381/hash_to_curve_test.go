package bls381

import (
	"bytes"
	"testing"
)

func TestHashToG1(t *testing.T) {
	b := Default()
	p, err := HashToG1(b, []byte("msg"), []byte("dst"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateG1(p); err != nil {
		t.Fatalf("hash output invalid: %v", err)
	}
	again, err := HashToG1(b, []byte("msg"), []byte("dst"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, again) {
		t.Fatal("hash to curve not deterministic")
	}
	other, err := HashToG1(b, []byte("msg"), []byte("dst2"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(p, other) {
		t.Fatal("dst change did not move the point")
	}
	diff, err := HashToG1(b, []byte("msg2"), []byte("dst"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(p, diff) {
		t.Fatal("msg change did not move the point")
	}
}

func TestHashToG2(t *testing.T) {
	b := Default()
	p, err := HashToG2(b, []byte("msg"), []byte("dst"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateG2(p); err != nil {
		t.Fatalf("hash output invalid: %v", err)
	}
	again, err := HashToG2(b, []byte("msg"), []byte("dst"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, again) {
		t.Fatal("hash to curve not deterministic")
	}
}

func TestHashToCurveRejectsLongDST(t *testing.T) {
	b := Default()
	long := bytes.Repeat([]byte{0x41}, 256)
	if _, err := HashToG1(b, []byte("msg"), long); err == nil {
		t.Fatal("dst over 255 bytes accepted")
	}
	if _, err := HashToG2(b, []byte("msg"), long); err == nil {
		t.Fatal("dst over 255 bytes accepted")
	}
}
