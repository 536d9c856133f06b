package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zmlAEQ/govbls/pkg/bus"
	"github.com/zmlAEQ/govbls/pkg/logger"
	"github.com/zmlAEQ/govbls/pkg/metrics"
	"github.com/zmlAEQ/govbls/pkg/trace"
)

var (
	ErrZeroTarget                  = errors.New("wallet: zero target address")
	ErrValueOutOfRange             = errors.New("wallet: value negative or wider than 256 bits")
	ErrBadTimeWindow               = errors.New("wallet: expiration not after effective time")
	ErrExpirationPassed            = errors.New("wallet: expiration not in the future")
	ErrGasLimitTooLow              = errors.New("wallet: gas limit below minimum")
	ErrNonceMismatch               = errors.New("wallet: nonce out of sequence")
	ErrHashCheckMismatch           = errors.New("wallet: hash check code mismatch")
	ErrPayloadTooLarge             = errors.New("wallet: payload exceeds limit")
	ErrOperationExists             = errors.New("wallet: operation already exists")
	ErrStatusMismatch              = errors.New("wallet: operation not pending")
	ErrUnknownOperation            = errors.New("wallet: unknown operation")
	ErrExecuteUnapprovedOperation  = errors.New("wallet: execute on unapproved operation")
	ErrExecuteUneffectiveOperation = errors.New("wallet: execute before effective time")
	ErrExecuteExpiredOperation     = errors.New("wallet: execute after expiration")
)

// verifier resolves an aggregated signature for the content-hash message of
// one operation. In threshold mode signerPKs is the claimed subset; in
// plain-aggregate mode it is ignored and the full member set is assumed.
type verifier func(aggSig, msg []byte, signerPKs [][]byte) (bool, error)

// Ledger owns the operation records and the nonce sequence. All mutation
// goes through its entry points, each serialized by one mutex; the external
// call in Execute happens outside the lock, after the status has moved to
// executing, so a reentrant execute on the same hash is rejected by the
// status check.
type Ledger struct {
	mu    sync.Mutex
	nonce uint64
	ops   map[Hash]*Operation

	clock          func() time.Time
	minGasLimit    uint64
	maxPayloadSize int
	threshold      int // 0 in plain-aggregate mode
	verify         verifier
	executor       Executor
	events         *bus.Bus
	journal        *Journal // nil disables journaling
}

func newLedger(cfg *Config, verify verifier) *Ledger {
	var journal *Journal
	if cfg.JournalPath != "" {
		journal = NewJournal(cfg.JournalPath)
	}
	return &Ledger{
		ops:            make(map[Hash]*Operation),
		clock:          cfg.Clock,
		minGasLimit:    cfg.MinGasLimit,
		maxPayloadSize: cfg.MaxPayloadSize,
		threshold:      cfg.Threshold,
		verify:         verify,
		executor:       cfg.Executor,
		events:         cfg.Bus,
		journal:        journal,
	}
}

// Nonce returns the next expected operation nonce.
func (l *Ledger) Nonce() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nonce
}

// Get returns a copy of the operation record for hash.
func (l *Ledger) Get(hash Hash) (Operation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	op, ok := l.ops[hash]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}

// Submit validates and records a batch of operations. The batch is atomic:
// any invalid operation aborts the whole call and nothing is recorded. The
// ledger nonce advances by one per submitted operation whether or not the
// operation is pre-approved. An operation carrying an aggregated signature
// that already verifies is created approved; everything else starts
// pending.
func (l *Ledger) Submit(ctx context.Context, batch []Operation) ([]Hash, error) {
	ctx, tid := trace.Ensure(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()

	now := uint64(l.clock().Unix())
	hashes := make([]Hash, len(batch))
	seen := make(map[Hash]struct{}, len(batch))
	for i := range batch {
		op := &batch[i]
		if err := l.validateSubmit(op, now); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		// Duplicate content is checked before the nonce: an identical
		// resubmission carries its original nonce, and the nonce comparison
		// would otherwise mask the duplicate.
		h := op.ContentHash()
		if _, dup := seen[h]; dup {
			return nil, fmt.Errorf("operation %d: %w", i, ErrOperationExists)
		}
		if existing, ok := l.ops[h]; ok && existing.Status != StatusNone {
			return nil, fmt.Errorf("operation %d: %w", i, ErrOperationExists)
		}
		if want := l.nonce + uint64(i); op.Nonce != want {
			return nil, fmt.Errorf("operation %d: %w: got %d want %d", i, ErrNonceMismatch, op.Nonce, want)
		}
		seen[h] = struct{}{}
		hashes[i] = h
	}

	for i := range batch {
		op := batch[i] // store a copy
		op.Status = StatusPending
		if len(op.AggregatedSig) > 0 && l.inlineApproves(&op, hashes[i]) {
			op.Status = StatusApproved
		}
		l.ops[hashes[i]] = &op
		l.nonce++
		l.logTransition("submit", hashes[i], op.Status, tid, nil)
		l.publish(ctx, bus.KindSubmitted, hashes[i], op.Status, op.Nonce, tid)
		l.journalAppend("submit", hashes[i], op.Status, op.Nonce)
	}
	return hashes, nil
}

func (l *Ledger) validateSubmit(op *Operation, now uint64) error {
	if op.Target.IsZero() {
		return ErrZeroTarget
	}
	// The value must fit the 32-byte hash field; FillBytes panics past 256
	// bits and would fold a negative value onto its absolute value.
	if op.Value != nil && (op.Value.Sign() < 0 || op.Value.BitLen() > 256) {
		return ErrValueOutOfRange
	}
	if op.ExpirationTime <= op.EffectiveTime {
		return ErrBadTimeWindow
	}
	if op.ExpirationTime <= now {
		return ErrExpirationPassed
	}
	if op.GasLimit < l.minGasLimit {
		return ErrGasLimitTooLow
	}
	if len(op.Payload) > l.maxPayloadSize {
		return ErrPayloadTooLarge
	}
	if op.HashCheckCode == ([8]byte{}) || op.HashCheckCode != op.CheckCode() {
		return ErrHashCheckMismatch
	}
	return nil
}

// inlineApproves runs the signature supplied at submit time. An invalid or
// insufficient signature leaves the operation pending rather than failing
// the submit.
func (l *Ledger) inlineApproves(op *Operation, h Hash) bool {
	if l.threshold > 0 && l.distinct(op.SignerSet) < l.threshold {
		return false
	}
	ok, err := l.verify(op.AggregatedSig, h[:], op.SignerSet)
	return err == nil && ok
}

// copySignerSet deep-copies the signer keys so the stored record does not
// alias caller memory.
func copySignerSet(signerPKs [][]byte) [][]byte {
	if signerPKs == nil {
		return nil
	}
	out := make([][]byte, len(signerPKs))
	for i, pk := range signerPKs {
		out[i] = append([]byte(nil), pk...)
	}
	return out
}

func (l *Ledger) distinct(signerPKs [][]byte) int {
	seen := make(map[[32]byte]struct{}, len(signerPKs))
	for _, pk := range signerPKs {
		seen[keccak256(pk)] = struct{}{}
	}
	return len(seen)
}

// VerifyResult is the per-operation outcome of a Verify batch.
type VerifyResult struct {
	Approved bool
	// Err carries the explicit notice when the verification could not run:
	// wrong status, unrecognized signer. It is nil for a clean
	// approve/reject decision.
	Err error
}

// Verify resolves one pending operation. Exactly one verification attempt is
// consumed: the cryptographic outcome is recorded as approved or rejected,
// and any later call observes the non-pending status and reports a
// status-mismatch notice instead of re-running the check. A signer subset
// below the threshold rejects without touching the pairing. An unrecognized
// signer aborts without consuming the attempt.
func (l *Ledger) Verify(ctx context.Context, hash Hash, aggSig []byte, signerPKs [][]byte) VerifyResult {
	ctx, tid := trace.Ensure(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()

	op, ok := l.ops[hash]
	if !ok {
		return VerifyResult{Err: ErrUnknownOperation}
	}
	if op.Status != StatusPending {
		l.logTransition("verify", hash, op.Status, tid, ErrStatusMismatch)
		return VerifyResult{Err: fmt.Errorf("%w: status %s", ErrStatusMismatch, op.Status)}
	}

	if l.threshold > 0 && l.distinct(signerPKs) < l.threshold {
		op.Status = StatusRejected
		op.AggregatedSig = append([]byte(nil), aggSig...)
		op.SignerSet = copySignerSet(signerPKs)
		l.logTransition("verify", hash, op.Status, tid, nil)
		l.publish(ctx, bus.KindVerified, hash, op.Status, op.Nonce, tid)
		l.journalAppend("verify", hash, op.Status, op.Nonce)
		metrics.Inc("wallet_verify_total", map[string]string{"result": "rejected"})
		return VerifyResult{}
	}

	ok, err := l.verify(aggSig, hash[:], signerPKs)
	if errors.Is(err, ErrUnrecognizedSigner) {
		l.logTransition("verify", hash, op.Status, tid, err)
		return VerifyResult{Err: err}
	}
	if err != nil || !ok {
		op.Status = StatusRejected
	} else {
		op.Status = StatusApproved
	}
	op.AggregatedSig = append([]byte(nil), aggSig...)
	op.SignerSet = copySignerSet(signerPKs)
	l.logTransition("verify", hash, op.Status, tid, err)
	l.publish(ctx, bus.KindVerified, hash, op.Status, op.Nonce, tid)
	l.journalAppend("verify", hash, op.Status, op.Nonce)
	metrics.Inc("wallet_verify_total", map[string]string{"result": op.Status.String()})
	return VerifyResult{Approved: op.Status == StatusApproved}
}

// Execute runs approved operations. Protocol violations (unknown hash, not
// approved, before effective time, past expiration) abort the batch; a
// failing target call is recorded as failed and the batch continues. The
// executing status is recorded before the external call so a reentrant
// execute on the same hash is rejected.
func (l *Ledger) Execute(ctx context.Context, hashes []Hash) error {
	ctx, tid := trace.Ensure(ctx)
	for _, h := range hashes {
		if err := l.executeOne(ctx, h, tid); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) executeOne(ctx context.Context, hash Hash, tid string) error {
	l.mu.Lock()
	op, ok := l.ops[hash]
	if !ok || op.Status != StatusApproved {
		status := StatusNone
		if ok {
			status = op.Status
		}
		l.logTransition("execute", hash, status, tid, ErrExecuteUnapprovedOperation)
		l.mu.Unlock()
		return fmt.Errorf("%w: status %s", ErrExecuteUnapprovedOperation, status)
	}
	now := uint64(l.clock().Unix())
	if now < op.EffectiveTime {
		l.logTransition("execute", hash, op.Status, tid, ErrExecuteUneffectiveOperation)
		l.mu.Unlock()
		return ErrExecuteUneffectiveOperation
	}
	if now >= op.ExpirationTime {
		op.Status = StatusExpired
		l.logTransition("execute", hash, op.Status, tid, ErrExecuteExpiredOperation)
		l.publish(ctx, bus.KindExecuted, hash, op.Status, op.Nonce, tid)
		l.journalAppend("execute", hash, op.Status, op.Nonce)
		metrics.Inc("wallet_execute_total", map[string]string{"result": "expired"})
		l.mu.Unlock()
		return ErrExecuteExpiredOperation
	}
	op.Status = StatusExecuting
	target, value, gasLimit := op.Target, op.Value, op.GasLimit
	payload := append([]byte(nil), op.Payload...)
	l.mu.Unlock()

	callErr := l.executor.Call(target, value, gasLimit, payload)

	l.mu.Lock()
	if callErr != nil {
		op.Status = StatusFailed
	} else {
		op.Status = StatusExecuted
	}
	l.logTransition("execute", hash, op.Status, tid, callErr)
	l.publish(ctx, bus.KindExecuted, hash, op.Status, op.Nonce, tid)
	l.journalAppend("execute", hash, op.Status, op.Nonce)
	metrics.Inc("wallet_execute_total", map[string]string{"result": op.Status.String()})
	l.mu.Unlock()
	return nil
}

// journalAppend is best effort: a journal write failure is logged, never
// surfaced to the caller.
func (l *Ledger) journalAppend(op string, hash Hash, status Status, nonce uint64) {
	if err := l.journal.Append(op, hash, status, nonce); err != nil {
		logger.WarnJ("wallet_journal", map[string]any{"op": op, "hash": hash.Hex(), "err": err.Error()})
	}
}

func (l *Ledger) logTransition(op string, hash Hash, status Status, tid string, err error) {
	fields := map[string]any{
		"op":       op,
		"hash":     hash.Hex(),
		"status":   status.String(),
		"trace_id": tid,
	}
	if err != nil {
		fields["err"] = err.Error()
		logger.WarnJ("wallet_ledger", fields)
		return
	}
	logger.InfoJ("wallet_ledger", fields)
	metrics.Inc("wallet_operations_total", map[string]string{"status": status.String()})
}

func (l *Ledger) publish(ctx context.Context, kind bus.Kind, hash Hash, status Status, nonce uint64, tid string) {
	if l.events == nil {
		return
	}
	l.events.Publish(ctx, bus.Event{
		Kind:    kind,
		Hash:    hash.Hex(),
		Status:  status.String(),
		Nonce:   nonce,
		TraceID: tid,
	})
}
