package music

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/jukebox/internal/music/controls"
	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

const notFoundText = "❌ No results found. Try a SoundCloud link or a direct audio link."

type PlayCommand struct{ m *Music }

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track from a link or a search query" }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Link or search query",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	m := c.m
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(inv.Option("query"))
	if query == "" {
		m.reply(ctx, inter, "❌ A link or search query is required.")
		return nil
	}

	guildID := inter.GuildID()
	user := inter.User()

	channelID, err := m.Voice.UserVoiceChannel(guildID, user.ID)
	switch {
	case errors.Is(err, ErrVoiceForbidden):
		m.reply(ctx, inter, "❌ I'm not allowed to join or speak in your voice channel.")
		return nil
	case err != nil || channelID == "":
		m.reply(ctx, inter, "❌ Join a voice channel first.")
		return nil
	}

	if err := inter.Defer(ctx); err != nil {
		m.Log.Debug().Err(err).Msg("defer failed")
	}

	_, existed := m.Engine.State(guildID)
	if err := m.Engine.Connect(ctx, guildID, channelID); err != nil {
		m.Log.Warn().Err(err).Str("guild", guildID).Msg("voice connect failed")
		m.editReply(ctx, inter, interaction.Message{Content: "❌ Could not join your voice channel."})
		return nil
	}

	t, ok := c.resolve(ctx, inter, query, user.Name)
	if !ok {
		// Nothing to play: don't leave a session this command joined sitting in voice.
		if !existed {
			m.Engine.Release(guildID)
		}
		return nil
	}

	// A stop may have run while we were resolving; rejoin if so.
	if err := m.Engine.Connect(ctx, guildID, channelID); err != nil {
		m.Log.Warn().Err(err).Str("guild", guildID).Msg("voice reconnect failed")
		m.editReply(ctx, inter, interaction.Message{Content: "❌ Could not join your voice channel."})
		return nil
	}

	position, idle := m.Engine.Enqueue(guildID, t)
	m.editReply(ctx, inter, interaction.Message{Embeds: []interaction.Embed{addedEmbed(t, position)}})

	if idle {
		m.Engine.Advance(guildID, &notifier{
			inter:     inter,
			guildID:   guildID,
			transport: m.Transport,
			ctx:       m.context(),
			log:       m.Log,
		})
	}
	return nil
}

// resolve turns query into one track. Links resolve directly; free text goes
// through the top-5 search and, with several hits, the picker.
func (c *PlayCommand) resolve(ctx context.Context, inter interaction.Interaction, query, requestedBy string) (track.Track, bool) {
	m := c.m

	if sources.IsURL(query) {
		t, err := m.Resolver.Resolve(ctx, query, requestedBy)
		if err != nil {
			m.editReply(ctx, inter, interaction.Message{Content: notFoundText})
			return track.Track{}, false
		}
		return t, true
	}

	candidates := m.Resolver.SearchTop5(ctx, query)
	switch len(candidates) {
	case 0:
		m.editReply(ctx, inter, interaction.Message{Content: notFoundText})
		return track.Track{}, false
	case 1:
		return candidates[0].Track(requestedBy), true
	}

	picked, err := m.Picker.Pick(ctx, inter, candidates)
	if err != nil {
		if !errors.Is(err, controls.ErrSelectionTimeout) {
			m.Log.Debug().Err(err).Msg("picker ended without a selection")
		}
		return track.Track{}, false
	}
	return picked.Track(requestedBy), true
}

func addedEmbed(t track.Track, position int) interaction.Embed {
	return interaction.Embed{
		Title:       "✅ Added to queue",
		Description: "**" + t.Title + "**",
		URL:         t.URL,
		Thumbnail:   t.Thumbnail,
		Footer:      fmt.Sprintf("Position %d · %s", position, t.SourceLabel),
	}
}
