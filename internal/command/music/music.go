// Package music holds the chat commands of the music bot. Commands receive
// their interaction.Interaction as Invocation.Data and report user-facing
// outcomes through it; only unexpected failures are returned as errors.
package music

import (
	"context"
	"errors"
	"strings"

	"github.com/keshon/jukebox/internal/music/controls"
	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// QueueLimit is how many upcoming tracks the queue command lists.
const QueueLimit = 15

var (
	ErrNotInVoice     = errors.New("user not in any voice channel")
	ErrVoiceForbidden = errors.New("missing permission to join or speak in the voice channel")
	errNoInteraction  = errors.New("invocation carries no interaction")
)

// Resolver is the track resolver the play command uses.
type Resolver interface {
	Resolve(ctx context.Context, query, requestedBy string) (track.Track, error)
	SearchTop5(ctx context.Context, query string) []track.Candidate
}

// VoiceLocator finds the voice channel a member is connected to.
type VoiceLocator interface {
	UserVoiceChannel(guildID, userID string) (string, error)
}

// Music bundles what the commands work with.
type Music struct {
	Engine    *player.Engine
	Resolver  Resolver
	Voice     VoiceLocator
	Transport *controls.Transport
	Picker    *controls.Picker
	// Context bounds notifications and controls that outlive a command.
	Context context.Context
	Log     zerolog.Logger
}

// SlashProvider is implemented by commands that register as slash commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Commands returns every music command.
func (m *Music) Commands() []cmd.Command {
	return []cmd.Command{
		&PlayCommand{m: m},
		&SkipCommand{m: m},
		&QueueCommand{m: m},
		&StopCommand{m: m},
		&PauseCommand{m: m},
		&LoopCommand{m: m},
		&ShuffleCommand{m: m},
	}
}

func (m *Music) context() context.Context {
	if m.Context != nil {
		return m.Context
	}
	return context.Background()
}

func interactionOf(inv *cmd.Invocation) (interaction.Interaction, error) {
	if inv != nil {
		if i, ok := inv.Data.(interaction.Interaction); ok {
			return i, nil
		}
	}
	return nil, errNoInteraction
}

// reply answers ephemerally; delivery failures are logged and dropped.
func (m *Music) reply(ctx context.Context, i interaction.Interaction, text string) {
	if err := i.Reply(ctx, interaction.Message{Content: text, Ephemeral: true}); err != nil {
		m.Log.Debug().Err(err).Msg("reply failed")
	}
}

func (m *Music) editReply(ctx context.Context, i interaction.Interaction, msg interaction.Message) {
	if _, err := i.EditReply(ctx, msg); err != nil {
		m.Log.Debug().Err(err).Msg("edit reply failed")
	}
}

func plain(name, description string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: name, Description: description}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
