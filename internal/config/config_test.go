package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/config"
)

func TestLoadValidatesDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - name: supervisor
    priority: 0
  - name: supervisor
    priority: 1
`), 0o644))

	_, err := config.Load(path)
	require.ErrorContains(t, err, "duplicate task name")
}

func TestLoadOK(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
journal_path: trace.db
tasks:
  - name: supervisor
    priority: 0
  - name: driver
    priority: 1
  - name: app
    priority: 2
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "trace.db", cfg.JournalPath)

	priorities := cfg.Priorities()
	require.Len(t, priorities, 3)
	require.EqualValues(t, 0, priorities[0])
	require.EqualValues(t, 1, priorities[1])
	require.EqualValues(t, 2, priorities[2])

	require.Equal(t, "driver", cfg.NameOf(1))
	require.Equal(t, "", cfg.NameOf(99))
}

func TestLoadValidatesIRQRouteTask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - name: driver
    priority: 0
irq_routes:
  - signal: USR1
    task: missing
    bits: 1
`), 0o644))

	_, err := config.Load(path)
	require.ErrorContains(t, err, "unknown task")
}

func TestLoadAcceptsIRQRoutes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boot.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - name: driver
    priority: 0
irq_routes:
  - signal: USR1
    task: driver
    bits: 2
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.IRQRoutes, 1)
	require.Equal(t, "driver", cfg.IRQRoutes[0].Task)
}
