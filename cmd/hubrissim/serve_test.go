package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/config"
	"github.com/Guiguiprim/hubris/internal/kernel"
)

func TestBuildIRQRouterNilWhenUnconfigured(t *testing.T) {
	cfg := &config.BootConfig{Tasks: []config.TaskConfig{{Name: "driver"}}}
	k := kernel.New(1, cfg.Priorities())

	router, err := buildIRQRouter(cfg, k)
	require.NoError(t, err)
	require.Nil(t, router)
}

func TestBuildIRQRouterResolvesTaskName(t *testing.T) {
	cfg := &config.BootConfig{
		Tasks:     []config.TaskConfig{{Name: "driver"}},
		IRQRoutes: []config.IRQRoute{{Signal: "USR1", Task: "driver", Bits: 4}},
	}
	k := kernel.New(1, cfg.Priorities())

	router, err := buildIRQRouter(cfg, k)
	require.NoError(t, err)
	require.NotNil(t, router)
}

func TestBuildIRQRouterRejectsUnknownTask(t *testing.T) {
	cfg := &config.BootConfig{
		Tasks:     []config.TaskConfig{{Name: "driver"}},
		IRQRoutes: []config.IRQRoute{{Signal: "USR1", Task: "ghost", Bits: 4}},
	}
	k := kernel.New(1, cfg.Priorities())

	_, err := buildIRQRouter(cfg, k)
	require.ErrorContains(t, err, "unknown task")
}
