// Package wallet implements the governed-operation wallet: an m-of-n (or
// all-of-n) BLS signature gate in front of an operation ledger that
// authorizes and executes arbitrary calls.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/zmlAEQ/govbls/internal/bls/sig"
	"github.com/zmlAEQ/govbls/pkg/logger"
	"github.com/zmlAEQ/govbls/pkg/metrics"
)

var ErrUnauthorized = errors.New("wallet: caller lacks required role")

// Wallet binds the signature scheme, the member set and the operation
// ledger. The mode (which curve holds public keys) and the member set are
// fixed at construction.
type Wallet struct {
	cfg    Config
	scheme *thresholdScheme // nil in plain-aggregate mode
	ledger *Ledger
	aggPK  []byte
}

// New builds a wallet from a validated configuration. In threshold mode the
// per-member setup integrity checks run here, once.
func New(cfg Config) (*Wallet, error) {
	cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Wallet{cfg: cfg}
	dst := []byte(cfg.DST)

	if cfg.Threshold > 0 {
		scheme, err := newThresholdScheme(cfg.Backend, cfg.Mode, dst, cfg.Members)
		if err != nil {
			return nil, err
		}
		w.scheme = scheme
		w.aggPK = scheme.aggregatedPK
		w.ledger = newLedger(&cfg, func(aggSig, msg []byte, signerPKs [][]byte) (bool, error) {
			ok, err := scheme.verify(aggSig, msg, signerPKs)
			metrics.Inc("pairing_checks_total", map[string]string{"result": boolResult(ok, err)})
			return ok, err
		})
	} else {
		pks := make([][]byte, len(cfg.Members))
		for i, m := range cfg.Members {
			pks[i] = m.PublicKey
		}
		aggPK, err := sig.AggregatePubKeys(cfg.Backend, cfg.Mode, pks)
		if err != nil {
			return nil, err
		}
		w.aggPK = aggPK
		w.ledger = newLedger(&cfg, func(aggSig, msg []byte, _ [][]byte) (bool, error) {
			ok, err := sig.Verify(cfg.Backend, cfg.Mode, aggSig, aggPK, msg, dst)
			metrics.Inc("pairing_checks_total", map[string]string{"result": boolResult(ok, err)})
			return ok, err
		})
	}
	return w, nil
}

func boolResult(ok bool, err error) string {
	if err != nil {
		return "error"
	}
	if ok {
		return "ok"
	}
	return "fail"
}

// Mode reports which curve holds public keys.
func (w *Wallet) Mode() sig.Mode { return w.cfg.Mode }

// Threshold returns the configured signer threshold; zero means
// plain-aggregate mode.
func (w *Wallet) Threshold() int { return w.cfg.Threshold }

// AggregatedPublicKey returns the weighted aggregate in threshold mode, or
// the plain sum of member keys otherwise.
func (w *Wallet) AggregatedPublicKey() []byte {
	return append([]byte(nil), w.aggPK...)
}

// Member returns the setup record for a raw public key, threshold mode only.
func (w *Wallet) Member(pk []byte) (MemberRecord, bool) {
	if w.scheme == nil {
		return MemberRecord{}, false
	}
	rec, ok := w.scheme.record(pk)
	if !ok {
		return MemberRecord{}, false
	}
	return *rec, true
}

// Nonce returns the next expected operation nonce.
func (w *Wallet) Nonce() uint64 { return w.ledger.Nonce() }

// Operation returns the record for a content hash.
func (w *Wallet) Operation(hash Hash) (Operation, bool) { return w.ledger.Get(hash) }

// Submit records a batch of operations. Open to any caller; approval still
// requires signatures.
func (w *Wallet) Submit(ctx context.Context, batch []Operation) ([]Hash, error) {
	begin := time.Now()
	hashes, err := w.ledger.Submit(ctx, batch)
	metrics.ObserveSummary("wallet_op_ms", map[string]string{"op": "submit"}, float64(time.Since(begin).Milliseconds()))
	return hashes, err
}

// Verify resolves pending operations. The caller must hold the verifier
// role. Inputs are parallel slices; one result is returned per hash even
// when the cryptographic check fails.
func (w *Wallet) Verify(ctx context.Context, caller Address, hashes []Hash, sigs [][]byte, signerSets [][][]byte) ([]VerifyResult, error) {
	if w.cfg.Roles != nil && !w.cfg.Roles.HasRole(RoleVerifier, caller) {
		return nil, ErrUnauthorized
	}
	if len(hashes) != len(sigs) || (signerSets != nil && len(signerSets) != len(hashes)) {
		return nil, ErrLengthMismatch
	}
	begin := time.Now()
	results := make([]VerifyResult, len(hashes))
	for i, h := range hashes {
		var signers [][]byte
		if signerSets != nil {
			signers = signerSets[i]
		}
		results[i] = w.ledger.Verify(ctx, h, sigs[i], signers)
	}
	metrics.ObserveSummary("wallet_op_ms", map[string]string{"op": "verify"}, float64(time.Since(begin).Milliseconds()))
	return results, nil
}

// ErrLengthMismatch reports ragged Verify input slices.
var ErrLengthMismatch = errors.New("wallet: hashes/signatures/signer sets length mismatch")

// Execute runs approved operations in order.
func (w *Wallet) Execute(ctx context.Context, hashes []Hash) error {
	begin := time.Now()
	err := w.ledger.Execute(ctx, hashes)
	metrics.ObserveSummary("wallet_op_ms", map[string]string{"op": "execute"}, float64(time.Since(begin).Milliseconds()))
	return err
}

// Name implements lifecycle.Service.
func (w *Wallet) Name() string { return "wallet" }

// Start implements lifecycle.Service.
func (w *Wallet) Start(ctx context.Context) error {
	logger.InfoJ("service_op", map[string]any{
		"service": "wallet", "op": "start", "result": "ok",
		"mode": w.cfg.Mode.String(), "members": len(w.cfg.Members), "threshold": w.cfg.Threshold,
	})
	return nil
}

// Stop implements lifecycle.Service.
func (w *Wallet) Stop(ctx context.Context) error {
	logger.InfoJ("service_op", map[string]any{"service": "wallet", "op": "stop", "result": "ok"})
	return nil
}
