package middleware

import (
	"context"
	"time"

	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/rs/zerolog"
)

// WithCommandLogger logs every command execution.
func WithCommandLogger(log zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			if i, ok := interactionOf(inv); ok {
				ev = ev.Str("guild", i.GuildID()).Str("channel", i.ChannelID()).Str("user", i.User().Name)
			}
			ev.Str("command", c.Name()).Dur("took", time.Since(start)).Msg("command executed")
			return err
		})
	}
}
