// cmd/clear-commands/main.go removes every registered slash command, globally
// and for each configured guild.
package main

import (
	"os"

	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/logging"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("configuration error")
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}

	appID := cfg.ApplicationID
	if appID == "" {
		u, err := dg.User("@me")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to fetch bot user")
		}
		appID = u.ID
	}

	failed := false
	for _, guildID := range append([]string{""}, cfg.GuildIDs...) {
		scope := guildID
		if scope == "" {
			scope = "global"
		}
		if _, err := dg.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{}); err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("failed to clear commands")
			failed = true
			continue
		}
		log.Info().Str("scope", scope).Msg("commands cleared")
	}
	if failed {
		os.Exit(1)
	}
}
