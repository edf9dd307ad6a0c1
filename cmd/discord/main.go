// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/logging"
	"github.com/keshon/jukebox/internal/middleware"
	"github.com/keshon/jukebox/internal/music/controls"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/session"
	"github.com/keshon/jukebox/internal/music/sources"
	"github.com/keshon/jukebox/internal/music/sources/soundcloud"
	"github.com/keshon/jukebox/internal/music/sources/spotify"
	"github.com/keshon/jukebox/internal/music/sources/youtube"
	"github.com/keshon/jukebox/internal/music/stream"
	"github.com/keshon/jukebox/internal/music/stream/voice"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/keshon/jukebox/pkg/retrylimit"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("configuration error")
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	log.Info().Msg("starting jukebox bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := cmd.NewRegistry()
	router := controls.NewRouter(logging.Component(log, "controls"))

	bot, err := discord.New(cfg, registry, router, logging.Component(log, "discord"))
	if err != nil {
		log.Fatal().Err(err).Msg("discord setup failed")
	}

	httpClient := youtube.NewHTTPClient(cfg.YouTubeProxy, logging.Component(log, "youtube"))
	yt := youtube.New(httpClient, logging.Component(log, "youtube"))
	sc := soundcloud.New()

	res := resolver.New(resolver.Options{
		Primary:     yt,
		Secondary:   sc,
		Direct:      []sources.Lookuper{sc},
		Probe:       yt,
		Aggregators: []sources.Aggregator{spotify.New(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)},
		Limiter: retrylimit.NewAdaptiveLimiter(
			rate.Limit(cfg.ProviderRPS), 1, rate.Limit(cfg.ProviderRPS*2), 0.5, 0.5,
		),
		Attempts: cfg.ProviderAttempts,
		Logger:   logging.Component(log, "resolver"),
	})
	if !cfg.SpotifyEnabled() {
		log.Info().Msg("spotify credentials not set, spotify links will not resolve")
	}

	chain := stream.NewChain(stream.Streamers(httpClient, cfg.YouTubeProxy), logging.Component(log, "stream"))
	engine := player.New(player.Options{
		Store:        session.NewStore(),
		Sink:         voice.NewSink(bot.Session(), chain, logging.Component(log, "voice")),
		ReadyTimeout: cfg.VoiceReadyTimeout,
		Context:      ctx,
		Logger:       logging.Component(log, "player"),
	})
	defer engine.Shutdown()

	transport := controls.NewTransport(router, engine, logging.Component(log, "controls"))
	transport.TTL = cfg.ControlsTTL
	picker := controls.NewPicker(router, logging.Component(log, "controls"))
	picker.TTL = cfg.PickTTL

	cmdLog := logging.Component(log, "command")
	m := &music.Music{
		Engine:    engine,
		Resolver:  res,
		Voice:     bot,
		Transport: transport,
		Picker:    picker,
		Context:   ctx,
		Log:       cmdLog,
	}
	for _, c := range m.Commands() {
		registry.Register(c,
			middleware.WithGuildOnly(cmdLog),
			middleware.WithCommandLogger(cmdLog),
			middleware.WithRecovery(cmdLog),
		)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("received signal, shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("discord bot error")
		}
		cancel()
	}

	log.Info().Msg("discord bot exited cleanly")
}
