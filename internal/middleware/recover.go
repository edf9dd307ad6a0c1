package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/rs/zerolog"
)

const internalErrorText = "⚠️ Something went wrong. Please try again."

// WithRecovery turns panics and returned errors into a generic reply. The
// details only go to the log.
func WithRecovery(log zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("command", c.Name()).Str("panic", fmt.Sprint(r)).Bytes("stack", debug.Stack()).Msg("command panicked")
					err = fmt.Errorf("command %s panicked: %v", c.Name(), r)
				}
				if err != nil {
					if i, ok := interactionOf(inv); ok {
						say(ctx, log, i, internalErrorText)
					}
				}
			}()
			return c.Run(ctx, inv)
		})
	}
}
