// Package scenario loads a declarative script of syscalls per task and
// drives internal/kernel.Kernel with it, journaling every step. It gives
// multi-task round-trip scenarios — and the debug CLI's "run" subcommand —
// a common, replayable format instead of one-off Go test fixtures.
package scenario

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step is one syscall invocation within a task's program.
type Step struct {
	Op         string `yaml:"op"` // SEND, RECV, REPLY, POST, RESTART
	Target     string `yaml:"target,omitempty"`
	OpCode     uint16 `yaml:"opcode,omitempty"`
	PayloadHex string `yaml:"payload,omitempty"`
	BufLen     int    `yaml:"buf_len,omitempty"`
	NotifMask  uint32 `yaml:"notif_mask,omitempty"`
	Source     string `yaml:"source,omitempty"` // "any", "closed:<task>", "specific:<task>"
	Code       uint32 `yaml:"code,omitempty"`
	Bits       uint32 `yaml:"bits,omitempty"`
}

// Payload decodes the step's hex-encoded payload, if any.
func (s Step) Payload() ([]byte, error) {
	if s.PayloadHex == "" {
		return nil, nil
	}

	b, err := hex.DecodeString(s.PayloadHex)
	if err != nil {
		return nil, fmt.Errorf("scenario: decode payload %q: %w", s.PayloadHex, err)
	}

	return b, nil
}

// Scenario is a named program per task, run concurrently.
type Scenario struct {
	Programs map[string][]Step `yaml:"programs"`
}

// Load reads a Scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %q: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parse %q: %w", path, err)
	}

	return &s, nil
}
