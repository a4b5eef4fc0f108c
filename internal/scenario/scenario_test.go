package scenario_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/config"
	"github.com/Guiguiprim/hubris/internal/journal"
	"github.com/Guiguiprim/hubris/internal/kernel"
	"github.com/Guiguiprim/hubris/internal/scenario"
)

const echoYAML = `
programs:
  client:
    - op: SEND
      target: server
      opcode: 7
      payload: "cafe"
      buf_len: 8
  server:
    - op: RECV
      source: any
      buf_len: 8
    - op: REPLY
      code: 0
      payload: "cafe"
`

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestLoadParsesPrograms(t *testing.T) {
	path := writeScenario(t, echoYAML)

	s, err := scenario.Load(path)
	require.NoError(t, err)
	require.Len(t, s.Programs, 2)
	require.Equal(t, "SEND", s.Programs["client"][0].Op)

	payload, err := s.Programs["client"][0].Payload()
	require.NoError(t, err)
	require.Equal(t, []byte{0xca, 0xfe}, payload)
}

func TestRunEchoesThroughJournal(t *testing.T) {
	path := writeScenario(t, echoYAML)
	s, err := scenario.Load(path)
	require.NoError(t, err)

	cfg := &config.BootConfig{
		Tasks: []config.TaskConfig{
			{Name: "client", Priority: 1},
			{Name: "server", Priority: 0},
		},
	}

	k := kernel.New(len(cfg.Tasks), cfg.Priorities())
	resolver := scenario.NewResolver(cfg, k)

	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	clock := fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, scenario.Run(k, resolver, s, j, "run-1", clock))

	entries, err := j.ForRun("run-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func fixedClock(t time.Time) scenario.Clock {
	return func() time.Time { return t }
}
