package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_IDS", "1,2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.VoiceReadyTimeout != 15*time.Second {
		t.Errorf("VoiceReadyTimeout = %v, want 15s", cfg.VoiceReadyTimeout)
	}
	if cfg.ControlsTTL != 5*time.Minute {
		t.Errorf("ControlsTTL = %v, want 5m", cfg.ControlsTTL)
	}
	if cfg.PickTTL != time.Minute {
		t.Errorf("PickTTL = %v, want 1m", cfg.PickTTL)
	}
	if len(cfg.GuildIDs) != 2 || cfg.GuildIDs[1] != "2" {
		t.Errorf("GuildIDs = %v", cfg.GuildIDs)
	}
	if cfg.SpotifyEnabled() {
		t.Error("spotify should be disabled without credentials")
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DISCORD_TOKEN")
	}
}

func TestLoadRejectsZeroTimeout(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PICK_TTL", "0s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero PICK_TTL")
	}
}
