// Package config loads process configuration from the environment. A .env file
// in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the bot reads at startup.
type Config struct {
	DiscordToken  string   `env:"DISCORD_TOKEN,required,notEmpty"`
	ApplicationID string   `env:"DISCORD_APPLICATION_ID"`
	GuildIDs      []string `env:"DISCORD_GUILD_IDS" envSeparator:","`
	// RegisterCommands controls whether slash commands are overwritten on ready.
	RegisterCommands bool `env:"REGISTER_COMMANDS" envDefault:"true"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	// YouTubeProxy accepts http, https, socks4 and socks5 URLs.
	YouTubeProxy string `env:"YOUTUBE_PROXY"`

	VoiceReadyTimeout time.Duration `env:"VOICE_READY_TIMEOUT" envDefault:"15s"`
	ControlsTTL       time.Duration `env:"CONTROLS_TTL" envDefault:"5m"`
	PickTTL           time.Duration `env:"PICK_TTL" envDefault:"60s"`

	ProviderRPS      float64 `env:"PROVIDER_RPS" envDefault:"5"`
	ProviderAttempts int     `env:"PROVIDER_ATTEMPTS" envDefault:"2"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// SpotifyEnabled reports whether both Spotify credentials are set.
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.VoiceReadyTimeout <= 0 {
		return errors.New("VOICE_READY_TIMEOUT must be positive")
	}
	if c.ControlsTTL <= 0 || c.PickTTL <= 0 {
		return errors.New("CONTROLS_TTL and PICK_TTL must be positive")
	}
	if c.ProviderAttempts < 1 {
		c.ProviderAttempts = 1
	}
	if c.ProviderRPS < 1 {
		c.ProviderRPS = 1
	}
	return nil
}
