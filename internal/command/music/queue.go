package music

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

type QueueCommand struct{ m *Music }

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the upcoming tracks" }
func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return plain(c.Name(), c.Description())
}

func (c *QueueCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}

	v := c.m.Engine.Queue(inter.GuildID(), QueueLimit)
	if v.Current == nil && len(v.Upcoming) == 0 {
		c.m.reply(ctx, inter, "📭 The queue is empty.")
		return nil
	}

	var b strings.Builder
	if v.Current != nil {
		fmt.Fprintf(&b, "▶️ **%s** · %s\n\n", truncate(v.Current.Title, 80), v.Current.RequestedBy)
	}
	for i, t := range v.Upcoming {
		fmt.Fprintf(&b, "%d. %s · %s\n", i+1, truncate(t.Title, 80), t.RequestedBy)
	}
	if more := v.Total - len(v.Upcoming); more > 0 {
		fmt.Fprintf(&b, "…and %d more\n", more)
	}

	embed := interaction.Embed{
		Title:       "📃 Queue",
		Description: strings.TrimRight(b.String(), "\n"),
		Footer:      fmt.Sprintf("%d upcoming · loop %s · shuffle %s", v.Total, onOff(v.Loop), onOff(v.Shuffle)),
	}
	if err := inter.Reply(ctx, interaction.Message{Embeds: []interaction.Embed{embed}}); err != nil {
		c.m.Log.Debug().Err(err).Msg("queue reply failed")
	}
	return nil
}
