// Package discord connects the music commands to a Discord gateway session.
package discord

import (
	"context"
	"fmt"

	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/music/controls"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	registry *cmd.Registry
	router   *controls.Router
	ctx      context.Context
	log      zerolog.Logger
}

// New creates the gateway session. Handlers are attached by Run.
func New(cfg *config.Config, registry *cmd.Registry, router *controls.Router, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	return &Bot{
		dg:       dg,
		cfg:      cfg,
		registry: registry,
		router:   router,
		ctx:      context.Background(),
		log:      log,
	}, nil
}

// Session exposes the gateway session for the voice sink.
func (b *Bot) Session() *discordgo.Session { return b.dg }

// Run opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	return nil
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord bot is running")

	if !b.cfg.RegisterCommands {
		b.log.Info().Msg("registering slash commands skipped")
		return
	}
	appID := b.cfg.ApplicationID
	if appID == "" {
		appID = r.User.ID
	}
	if err := b.registerCommands(b.ctx, appID); err != nil {
		b.log.Error().Err(err).Msg("registering slash commands failed")
	}
}

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		c, ok := b.registry.Get(data.Name)
		if !ok {
			b.log.Warn().Str("command", data.Name).Msg("unknown command")
			return
		}
		inv := &cmd.Invocation{
			Options: optionValues(data.Options),
			Data:    &slashInteraction{s: s, i: i},
		}
		if err := c.Run(b.ctx, inv); err != nil {
			b.log.Error().Err(err).Str("command", data.Name).Msg("error running slash command")
		}

	case discordgo.InteractionMessageComponent:
		b.router.Dispatch(b.ctx, &componentInteraction{s: s, i: i})

	default:
		b.log.Debug().Int("type", int(i.Type)).Msg("unhandled interaction type")
	}
}

func optionValues(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	out := make(map[string]string, len(opts))
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionString {
			out[o.Name] = o.StringValue()
			continue
		}
		out[o.Name] = fmt.Sprint(o.Value)
	}
	return out
}
