package wallet

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/zmlAEQ/govbls/pkg/logger"
	"github.com/zmlAEQ/govbls/pkg/metrics"
)

// Journal is a minimal append-only log of operation status transitions.
// Each entry is one JSON line. It is a best-effort audit trail and restart
// guard, not a full state store: replay reconstructs the last known status
// per hash, while operation content lives only in memory.
type Journal struct {
	mu   sync.Mutex
	path string
}

type journalEntry struct {
	Op     string `json:"op"`
	Hash   string `json:"hash"`
	Status string `json:"status"`
	Nonce  uint64 `json:"nonce"`
}

func NewJournal(path string) *Journal { return &Journal{path: path} }

// Append writes one transition as a single JSON line and syncs the file.
func (j *Journal) Append(op string, hash Hash, status Status, nonce uint64) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	b, _ := json.Marshal(journalEntry{Op: op, Hash: hash.Hex(), Status: status.String(), Nonce: nonce})
	if _, err = f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	_ = f.Close()
	metrics.Inc("wallet_journal_appends_total", nil)
	return nil
}

// ErrNoEntries reports an empty or unreadable journal on replay.
var ErrNoEntries = errors.New("wallet: journal has no entries")

// LastStatus scans the journal and returns the latest recorded status per
// hash plus the highest nonce seen. Journals are expected to be small.
func (j *Journal) LastStatus() (map[string]Status, uint64, error) {
	if j == nil {
		return nil, 0, ErrNoEntries
	}
	f, err := os.Open(j.path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	out := make(map[string]Status)
	var maxNonce uint64
	s := bufio.NewScanner(f)
	for s.Scan() {
		var e journalEntry
		if json.Unmarshal(s.Bytes(), &e) != nil {
			continue
		}
		st, ok := statusFromString(e.Status)
		if !ok {
			continue
		}
		out[e.Hash] = st
		if e.Nonce >= maxNonce {
			maxNonce = e.Nonce
		}
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return nil, 0, ErrNoEntries
	}
	metrics.Inc("wallet_journal_recover_total", map[string]string{"result": "ok"})
	logger.InfoJ("wallet_journal", map[string]any{"op": "recover", "result": "ok", "entries": len(out)})
	return out, maxNonce, nil
}

func statusFromString(s string) (Status, bool) {
	for st := StatusNone; st <= StatusExpired; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return StatusNone, false
}
