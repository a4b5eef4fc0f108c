// Package journal persists every syscall issued during a run to a
// sqlite-backed append-only table, generalizing the role
// lxd/operations/linux.go plays persisting operation records via
// registerDBOperation/updateDBOperation/removeDBOperation — there, one row
// per long-running cluster operation; here, one row per IPC syscall.
package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Entry is one recorded syscall.
type Entry struct {
	SpanID    string
	RunID     string
	Syscall   string
	Task      uint16
	Detail    string
	Result    string
	Timestamp time.Time
}

// Journal wraps a sqlite database holding the append-only syscall trace for
// one or more runs.
type Journal struct {
	db *sql.DB

	// mu serializes span ID minting: ulid's monotonic entropy source is
	// not safe for concurrent use, and a scenario run journals from one
	// goroutine per task.
	mu sync.Mutex
}

// Open creates (if needed) and opens a sqlite journal database at path. The
// returned Journal owns db and must be closed by the caller.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS syscalls (
	span_id    TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	syscall    TEXT NOT NULL,
	task       INTEGER NOT NULL,
	detail     TEXT NOT NULL,
	result     TEXT NOT NULL,
	ts         DATETIME NOT NULL
);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migrate %q: %w", path, err)
	}

	return &Journal{db: db}, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error { return j.db.Close() }

// spanSource is a process-wide monotonic ULID entropy source. It is not
// safe for concurrent use on its own, hence mu guarding every read of it.
var spanSource = ulid.DefaultEntropy()

// Record appends one syscall entry, stamping it with a fresh monotonic span
// ID derived from now. Callers pass their own timestamp rather than having
// Record call time.Now() so that scenario replay can reproduce identical
// timestamps across runs; the span ID's time component follows now, while
// its entropy component differs from run to run.
func (j *Journal) Record(runID string, now time.Time, e Entry) error {
	e.RunID = runID
	e.Timestamp = now

	j.mu.Lock()
	e.SpanID = ulid.MustNew(ulid.Timestamp(now), spanSource).String()
	j.mu.Unlock()

	_, err := j.db.Exec(
		`INSERT INTO syscalls (span_id, run_id, syscall, task, detail, result, ts) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SpanID, e.RunID, e.Syscall, e.Task, e.Detail, e.Result, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}

	return nil
}

// ForRun returns every entry recorded under runID, oldest first.
func (j *Journal) ForRun(runID string) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT span_id, run_id, syscall, task, detail, result, ts FROM syscalls WHERE run_id = ? ORDER BY ts ASC, span_id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: query run %q: %w", runID, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SpanID, &e.RunID, &e.Syscall, &e.Task, &e.Detail, &e.Result, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("journal: scan run %q: %w", runID, err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}
