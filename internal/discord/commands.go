package discord

import (
	"context"
	"fmt"

	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/keshon/jukebox/pkg/parallel"

	"github.com/bwmarrin/discordgo"
)

// registerScopeWorkers bounds concurrent per-guild registrations.
const registerScopeWorkers = 4

// registerCommands overwrites the slash commands of every configured guild,
// or the global set when none is configured. Scopes whose remote commands
// already match are left alone.
func (b *Bot) registerCommands(ctx context.Context, appID string) error {
	defs := commandDefinitions(b.registry)
	want := hashCommands(defs)

	scopes := b.cfg.GuildIDs
	if len(scopes) == 0 {
		scopes = []string{""}
	}

	err := parallel.Each(ctx, scopes, registerScopeWorkers, func(ctx context.Context, guildID string) error {
		log := b.log.With().Str("guild", guildID).Logger()

		remote, err := b.dg.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
		if err == nil && hashCommands(remote) == want {
			log.Info().Int("commands", len(defs)).Msg("slash commands up to date")
			return nil
		}

		if _, err := b.dg.ApplicationCommandBulkOverwrite(appID, guildID, defs, discordgo.WithContext(ctx)); err != nil {
			log.Error().Err(err).Msg("bulk overwrite failed")
			return fmt.Errorf("guild %q: %w", guildID, err)
		}
		log.Info().Int("commands", len(defs)).Msg("slash commands registered")
		return nil
	})
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}

// commandDefinitions collects slash definitions from the registry, walking
// through middleware wrappers via cmd.Root.
func commandDefinitions(r *cmd.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range r.All() {
		slash, ok := cmd.Root(c).(music.SlashProvider)
		if !ok {
			continue
		}
		def := slash.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}
