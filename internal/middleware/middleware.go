// Package middleware holds the cmd.Middleware used around chat commands.
// Commands receive their interaction.Interaction as Invocation.Data.
package middleware

import (
	"context"

	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/rs/zerolog"
)

func interactionOf(inv *cmd.Invocation) (interaction.Interaction, bool) {
	if inv == nil {
		return nil, false
	}
	i, ok := inv.Data.(interaction.Interaction)
	return i, ok
}

func say(ctx context.Context, log zerolog.Logger, i interaction.Interaction, text string) {
	m := interaction.Message{Content: text, Ephemeral: true}
	if err := i.Reply(ctx, m); err == nil {
		return
	}
	// Already acknowledged.
	if _, err := i.EditReply(ctx, m); err != nil {
		log.Debug().Err(err).Msg("interaction reply failed")
	}
}
