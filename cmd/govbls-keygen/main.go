// govbls-keygen generates a member set for a governance wallet: n BLS key
// pairs (IKM-based key generation via blst), each member's possession-proof
// point for threshold setup, and the shared public wallet config.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	blst "github.com/supranational/blst/bindings/go"

	"github.com/zmlAEQ/govbls/internal/bls/bls381"
	"github.com/zmlAEQ/govbls/internal/bls/sig"
	"github.com/zmlAEQ/govbls/internal/wallet"
)

type memberConfig struct {
	Mode      string `json:"mode"`
	Index     int    `json:"index"`
	SecretKey string `json:"secret_key"`
	PublicKey string `json:"public_key"`
	Weight    string `json:"weight"`
	IDPoint   string `json:"id_point"`
}

type walletConfig struct {
	Mode      string         `json:"mode"`
	DST       string         `json:"dst"`
	Threshold int            `json:"threshold"`
	Members   []walletMember `json:"members"`
}

type walletMember struct {
	PublicKey string `json:"public_key"`
	IDPoint   string `json:"id_point"`
}

func main() {
	var (
		n     int
		t     int
		mode  string
		dst   string
		out   string
	)
	flag.IntVar(&n, "n", 5, "Total members")
	flag.IntVar(&t, "t", 3, "Signer threshold (0 = plain aggregate mode)")
	flag.StringVar(&mode, "mode", "pk-on-g1", "Wallet mode: pk-on-g1 or pk-on-g2")
	flag.StringVar(&dst, "dst", "GOVBLS_V1_WITH_BLS12381_XMD_SHA256", "Domain separation tag")
	flag.StringVar(&out, "out", "govbls-keys", "Output directory")
	flag.Parse()

	if n <= 0 || t < 0 || t > n {
		fmt.Fprintln(os.Stderr, "invalid n/t")
		os.Exit(2)
	}
	m, err := parseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	backend := bls381.Default()
	secrets := make([]bls381.Scalar, n)
	pks := make([][]byte, n)
	for i := 0; i < n; i++ {
		s, err := randScalar()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		secrets[i] = s
		kp, err := sig.NewKeyPair(backend, m, s)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		pks[i] = kp.Public
	}

	weights := wallet.MemberWeights([]byte(dst), pks)
	pub := walletConfig{Mode: m.String(), DST: dst, Threshold: t}
	for i := 0; i < n; i++ {
		id, err := wallet.MemberID(backend, m, secrets[i], weights[i], []byte(dst))
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		mc := memberConfig{
			Mode:      m.String(),
			Index:     i + 1,
			SecretKey: hex.EncodeToString(secrets[i]),
			PublicKey: hex.EncodeToString(pks[i]),
			Weight:    hex.EncodeToString(weights[i]),
			IDPoint:   hex.EncodeToString(id),
		}
		path := filepath.Join(out, fmt.Sprintf("govbls-member-%d.json", i+1))
		if err := writeJSON(path, mc); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		pub.Members = append(pub.Members, walletMember{PublicKey: mc.PublicKey, IDPoint: mc.IDPoint})
	}
	if err := writeJSON(filepath.Join(out, "govbls-wallet.json"), pub); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Printf("wrote %d configs to %s\n", n+1, out)
}

func parseMode(s string) (sig.Mode, error) {
	switch s {
	case "pk-on-g1":
		return sig.ModePKOnG1, nil
	case "pk-on-g2":
		return sig.ModePKOnG2, nil
	default:
		return 0, errors.New("unknown mode: " + s)
	}
}

// randScalar derives a secret scalar from fresh IKM via blst's KeyGen, then
// re-encodes it in the wallet's 32-byte big-endian form.
func randScalar() (bls381.Scalar, error) {
	ikm := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, ikm); err != nil {
		return nil, err
	}
	s := blst.KeyGen(ikm)
	if s == nil {
		return nil, errors.New("bad randomness")
	}
	return bls381.Scalar(s.Serialize()), nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
