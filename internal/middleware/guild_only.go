package middleware

import (
	"context"

	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/rs/zerolog"
)

// WithGuildOnly refuses commands sent outside a guild.
func WithGuildOnly(log zerolog.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if i, ok := interactionOf(inv); ok && i.GuildID() == "" {
				say(ctx, log, i, "This command only works in a server.")
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}
