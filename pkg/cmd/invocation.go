// Package cmd is the transport-agnostic command core. A command has a name, a
// description and Run; registering it with Discord and decoding the request
// is left to the adapter that owns the Registry.
package cmd

import "context"

// Invocation is what an adapter hands a command: named options plus an opaque
// payload. The Discord adapter puts the interaction.Interaction in Data.
type Invocation struct {
	Options map[string]string
	Data    interface{}
}

// Option returns a named option or "" when it was not supplied.
func (inv *Invocation) Option(name string) string {
	if inv == nil || inv.Options == nil {
		return ""
	}
	return inv.Options[name]
}

// Command is implemented by everything the Registry stores.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
