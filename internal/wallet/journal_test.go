package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zmlAEQ/govbls/internal/bls/sig"
)

func TestJournalAppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet", "journal.log")
	j := NewJournal(path)

	h1 := Hash{0x01}
	h2 := Hash{0x02}
	require.NoError(t, j.Append("submit", h1, StatusPending, 0))
	require.NoError(t, j.Append("submit", h2, StatusPending, 1))
	require.NoError(t, j.Append("verify", h1, StatusApproved, 0))
	require.NoError(t, j.Append("execute", h1, StatusExecuted, 0))

	statuses, maxNonce, err := j.LastStatus()
	require.NoError(t, err)
	require.Equal(t, uint64(1), maxNonce)
	require.Equal(t, StatusExecuted, statuses[h1.Hex()])
	require.Equal(t, StatusPending, statuses[h2.Hex()])
}

func TestJournalReplaySkipsGarbageLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j := NewJournal(path)
	require.NoError(t, j.Append("submit", Hash{0x03}, StatusPending, 0))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n{\"status\":\"bogus\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	statuses, _, err := j.LastStatus()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
}

func TestJournalReplaySurfacesScanErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j := NewJournal(path)
	require.NoError(t, j.Append("submit", Hash{0x04}, StatusPending, 0))

	// a line past the scanner's token limit must fail replay, not silently
	// truncate it
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	long := make([]byte, 70_000)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.Write(append(long, '\n'))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, _, err = j.LastStatus()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoEntries)
}

func TestJournalEmpty(t *testing.T) {
	var j *Journal
	require.NoError(t, j.Append("submit", Hash{}, StatusPending, 0))
	_, _, err := j.LastStatus()
	require.ErrorIs(t, err, ErrNoEntries)

	missing := NewJournal(filepath.Join(t.TempDir(), "absent.log"))
	_, _, err = missing.LastStatus()
	require.Error(t, err)
}

func TestLedgerWritesJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	group := newGroup(t, sig.ModePKOnG1, 3)
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	w, err := New(Config{
		Mode:        sig.ModePKOnG1,
		DST:         testDST,
		Threshold:   2,
		Members:     memberKeys(group),
		Executor:    &fakeExecutor{},
		Clock:       clk.Now,
		JournalPath: path,
	})
	require.NoError(t, err)

	op := makeOp(0, clk.now)
	hashes, err := w.Submit(context.Background(), []Operation{op})
	require.NoError(t, err)

	j := NewJournal(path)
	statuses, maxNonce, err := j.LastStatus()
	require.NoError(t, err)
	require.Equal(t, uint64(0), maxNonce)
	require.Equal(t, StatusPending, statuses[hashes[0].Hex()])
}
