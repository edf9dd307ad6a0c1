package music

import (
	"context"

	"github.com/keshon/jukebox/internal/music/controls"
	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/rs/zerolog"
)

// notifier posts playback events as follow-ups to the play command that
// started playback.
type notifier struct {
	inter     interaction.Interaction
	guildID   string
	transport *controls.Transport
	ctx       context.Context
	log       zerolog.Logger
}

func (n *notifier) NowPlaying(ctx context.Context, t track.Track) {
	if n.transport == nil {
		return
	}
	send := func(m interaction.Message) (interaction.Handle, error) {
		return n.inter.FollowUp(ctx, m)
	}
	if _, err := n.transport.Attach(n.ctx, n.guildID, t, send); err != nil {
		n.log.Debug().Err(err).Str("guild", n.guildID).Msg("now playing message failed")
	}
}

func (n *notifier) Skipped(ctx context.Context, t track.Track, err error) {
	msg := interaction.Message{Content: "❌ Could not play **" + t.Title + "**, skipping…"}
	if _, ferr := n.inter.FollowUp(ctx, msg); ferr != nil {
		n.log.Debug().Err(ferr).Str("guild", n.guildID).Msg("skipped notice failed")
	}
}
