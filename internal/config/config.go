// Package config loads the boot-time configuration for a kernel model run:
// how many task slots to allocate and what priority each one boots at.
// Mirrors the shape of lxd's own small, validated config structs, using
// YAML rather than lxd's database-backed config since this config is
// read once at process start, never mutated at runtime.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Guiguiprim/hubris/internal/kernel"
)

// TaskConfig describes one boot-time task table slot.
type TaskConfig struct {
	Name     string          `yaml:"name"`
	Priority kernel.Priority `yaml:"priority"`
}

// IRQRoute binds one simulated interrupt (delivered as a POSIX user signal)
// to a notification POST.
type IRQRoute struct {
	Signal string `yaml:"signal"` // "USR1" or "USR2"
	Task   string `yaml:"task"`
	Bits   uint32 `yaml:"bits"`
}

// BootConfig is the top-level boot configuration: the fixed task table,
// where the journal file lives, and the IRQ routes.
type BootConfig struct {
	Tasks       []TaskConfig `yaml:"tasks"`
	JournalPath string       `yaml:"journal_path"`
	IRQRoutes   []IRQRoute   `yaml:"irq_routes"`
}

// Priorities extracts the priority of each task in table-index order.
func (c BootConfig) Priorities() []kernel.Priority {
	out := make([]kernel.Priority, len(c.Tasks))
	for i, task := range c.Tasks {
		out[i] = task.Priority
	}

	return out
}

// NameOf returns the configured name for a task index, or "" if unset.
func (c BootConfig) NameOf(index uint16) string {
	if int(index) >= len(c.Tasks) {
		return ""
	}

	return c.Tasks[index].Name
}

// Load reads and validates a BootConfig from a YAML file at path.
func Load(path string) (*BootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg BootConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}

	return &cfg, nil
}

func (c BootConfig) validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("at least one task is required")
	}

	seen := make(map[string]struct{}, len(c.Tasks))
	for _, task := range c.Tasks {
		if task.Name == "" {
			return fmt.Errorf("task missing name")
		}

		if _, dup := seen[task.Name]; dup {
			return fmt.Errorf("duplicate task name %q", task.Name)
		}

		seen[task.Name] = struct{}{}
	}

	for _, route := range c.IRQRoutes {
		if route.Signal != "USR1" && route.Signal != "USR2" {
			return fmt.Errorf("irq route: unsupported signal %q", route.Signal)
		}

		if _, ok := seen[route.Task]; !ok {
			return fmt.Errorf("irq route: unknown task %q", route.Task)
		}
	}

	return nil
}
