package cmd

import (
	"sort"
	"sync"
)

// Registry stores commands by name. It does not perform dispatch; each adapter
// looks up commands and invokes them with its own invocation payload.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command, applying middlewares around it.
// A later registration under the same name replaces the earlier one.
func (r *Registry) Register(c Command, mws ...Middleware) {
	wrapped := Apply(c, mws...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[c.Name()] = wrapped
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.commands[name]
	return c, ok
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
