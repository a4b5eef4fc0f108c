package journal_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/journal"
)

func TestRecordAndForRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record("run-a", now, journal.Entry{Syscall: "SEND", Task: 1, Detail: "op=7", Result: "blocked"}))
	require.NoError(t, j.Record("run-a", now.Add(time.Millisecond), journal.Entry{Syscall: "RECV", Task: 0, Detail: "", Result: "matched"}))
	require.NoError(t, j.Record("run-b", now, journal.Entry{Syscall: "SEND", Task: 2, Detail: "op=1", Result: "blocked"}))

	entries, err := j.ForRun("run-a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "SEND", entries[0].Syscall)
	require.Equal(t, "RECV", entries[1].Syscall)
	require.NotEmpty(t, entries[0].SpanID)
	require.NotEqual(t, entries[0].SpanID, entries[1].SpanID)
}
