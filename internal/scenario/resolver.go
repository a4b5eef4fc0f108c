package scenario

import "github.com/Guiguiprim/hubris/internal/kernel"

// bootConfig is the slice of config.BootConfig that resolver needs,
// kept narrow so this package doesn't import config for its YAML tags.
type bootConfig interface {
	NameOf(index uint16) string
}

// idLookup is the slice of *kernel.Kernel that resolver needs.
type idLookup interface {
	NumTasks() int
	TaskId(idx uint16) (kernel.TaskId, bool)
}

// resolver implements NameResolver over a boot config's name table and a
// live kernel's current generations, so a scenario step's task name
// resolves to the TaskId a restart would have bumped.
type resolver struct {
	byName map[string]uint16
	k      idLookup
}

// NewResolver builds a NameResolver from a boot config's task names and a
// kernel's current task table.
func NewResolver(cfg bootConfig, k idLookup) NameResolver {
	byName := make(map[string]uint16, k.NumTasks())
	for i := 0; i < k.NumTasks(); i++ {
		if name := cfg.NameOf(uint16(i)); name != "" {
			byName[name] = uint16(i)
		}
	}

	return &resolver{byName: byName, k: k}
}

func (r *resolver) Resolve(name string) (kernel.TaskId, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return kernel.TaskId{}, false
	}

	return r.k.TaskId(idx)
}
