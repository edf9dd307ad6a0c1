package cmd

import "context"

// RunFunc is the signature of Command.Run.
type RunFunc func(ctx context.Context, inv *Invocation) error

// Middleware wraps a command (logging, guild checks, recovery).
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Wrap returns a command with c's identity that runs run instead of c.Run.
func Wrap(c Command, run RunFunc) Command {
	return &wrapped{inner: c, run: run}
}

// Root strips every Wrap layer and returns the command that was registered,
// so adapters can type-assert it for transport-specific definitions.
func Root(c Command) Command {
	for {
		w, ok := c.(*wrapped)
		if !ok {
			return c
		}
		c = w.inner
	}
}

type wrapped struct {
	inner Command
	run   RunFunc
}

func (w *wrapped) Name() string        { return w.inner.Name() }
func (w *wrapped) Description() string { return w.inner.Description() }

func (w *wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.run == nil {
		return w.inner.Run(ctx, inv)
	}
	return w.run(ctx, inv)
}
