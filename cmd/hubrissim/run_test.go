package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestRunCommandExecutesScenarioAndPrintsTrace(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "boot.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
journal_path: `+filepath.Join(dir, "trace.db")+`
tasks:
  - name: client
    priority: 1
  - name: server
    priority: 0
`), 0o644))

	scenarioPath := filepath.Join(dir, "echo.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(`
programs:
  client:
    - op: SEND
      target: server
      opcode: 1
      payload: "ab"
      buf_len: 4
  server:
    - op: RECV
      source: any
      buf_len: 4
    - op: REPLY
      code: 0
      payload: "ab"
`), 0o644))

	cmd := newRunCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", configPath, "--scenario", scenarioPath})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "SEND")
	require.Contains(t, out.String(), "REPLY")
}
