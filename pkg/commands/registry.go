package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	lookup   map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		lookup:   make(map[string]Command),
	}
}

// Register adds cmd under its name and aliases. Names are case-insensitive
// and must not collide with an existing name or alias.
func (r *Registry) Register(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{cmd.Name()}, cmd.Aliases()...)
	for _, key := range keys {
		key = strings.ToLower(key)
		if key == "" {
			return fmt.Errorf("command %q has an empty name or alias", cmd.Name())
		}
		if existing, ok := r.lookup[key]; ok {
			return fmt.Errorf("command %q conflicts with %q on %q", cmd.Name(), existing.Name(), key)
		}
	}

	r.commands[strings.ToLower(cmd.Name())] = cmd
	for _, key := range keys {
		r.lookup[strings.ToLower(key)] = cmd
	}
	return nil
}

// Get resolves a command by name or alias.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.lookup[strings.ToLower(name)]
	return cmd, ok
}

// Commands returns the registered commands sorted by name.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}
