package controls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/session"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultControlsTTL is how long transport buttons stay live.
const DefaultControlsTTL = 5 * time.Minute

const (
	actionToggle  = "toggle"
	actionSkip    = "skip"
	actionStop    = "stop"
	actionLoop    = "loop"
	actionShuffle = "shuffle"
)

// Engine is the part of the playback engine the buttons drive.
type Engine interface {
	PauseToggle(guildID string) (bool, error)
	Skip(guildID string) error
	Stop(guildID string) error
	ToggleLoop(guildID string) bool
	ToggleShuffle(guildID string) bool
	State(guildID string) (session.State, bool)
}

// Transport attaches the pause/skip/stop/loop/shuffle row to now-playing
// messages. Any member may press any button.
type Transport struct {
	router *Router
	engine Engine
	TTL    time.Duration
	log    zerolog.Logger
}

func NewTransport(router *Router, engine Engine, log zerolog.Logger) *Transport {
	return &Transport{router: router, engine: engine, TTL: DefaultControlsTTL, log: log}
}

// NowPlayingEmbed renders the now-playing card for t.
func NowPlayingEmbed(t track.Track) interaction.Embed {
	return interaction.Embed{
		Title:       "🎶 Now Playing",
		Description: fmt.Sprintf("**%s**\nRequested by: **%s**", t.Title, t.RequestedBy),
		URL:         t.URL,
		Thumbnail:   t.Thumbnail,
		Footer:      t.SourceLabel,
	}
}

// Buttons renders the control row. Loop and shuffle labels show their state.
func Buttons(prefix string, loop, shuffle, disabled bool) []interaction.Button {
	id := func(action string) string { return prefix + ":" + action }
	return []interaction.Button{
		{ID: id(actionToggle), Emoji: "⏯️", Style: interaction.StyleSecondary, Disabled: disabled},
		{ID: id(actionSkip), Emoji: "⏭️", Style: interaction.StyleSecondary, Disabled: disabled},
		{ID: id(actionStop), Emoji: "⏹️", Style: interaction.StyleDanger, Disabled: disabled},
		{ID: id(actionLoop), Label: "🔁 " + onOff(loop), Style: interaction.StyleSecondary, Disabled: disabled},
		{ID: id(actionShuffle), Label: "🔀 " + onOff(shuffle), Style: interaction.StyleSecondary, Disabled: disabled},
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// Attach sends the now-playing message for t through send and serves its
// buttons until the TTL ends. On expiry the buttons are disabled and the
// session is left alone.
func (tr *Transport) Attach(ctx context.Context, guildID string, t track.Track, send func(interaction.Message) (interaction.Handle, error)) (*Collector, error) {
	prefix := "ctl:" + uuid.NewString()
	embed := NowPlayingEmbed(t)

	render := func(disabled bool) interaction.Message {
		st, _ := tr.engine.State(guildID)
		return interaction.Message{
			Embeds:  []interaction.Embed{embed},
			Buttons: Buttons(prefix, st.Loop, st.Shuffle, disabled),
		}
	}

	h, err := send(render(false))
	if err != nil {
		return nil, err
	}

	c := tr.router.Collect(ctx, prefix, tr.TTL, func(ctx context.Context, comp interaction.Component) bool {
		return tr.handle(ctx, guildID, comp, h, render)
	})

	go func() {
		<-c.Done()
		if c.Reason() == EndDone {
			return
		}
		if err := h.Edit(context.Background(), render(true)); err != nil {
			tr.log.Debug().Err(err).Str("guild", guildID).Msg("disable controls failed")
		}
	}()
	return c, nil
}

func (tr *Transport) handle(ctx context.Context, guildID string, comp interaction.Component, h interaction.Handle, render func(bool) interaction.Message) bool {
	log := tr.log.With().Str("guild", guildID).Str("user", comp.User().Name).Str("action", Action(comp.CustomID())).Logger()

	switch Action(comp.CustomID()) {
	case actionToggle:
		if _, err := tr.engine.PauseToggle(guildID); err != nil {
			tr.notice(ctx, comp, "Nothing is playing.")
			return false
		}
		tr.ack(ctx, comp)

	case actionSkip:
		st, ok := tr.engine.State(guildID)
		if !ok || (!st.Playing && len(st.Queue) == 0) {
			tr.notice(ctx, comp, "Nothing to skip.")
			return false
		}
		tr.ack(ctx, comp)
		skip := func() {
			if err := tr.engine.Skip(guildID); err != nil && !errors.Is(err, player.ErrNothingToSkip) {
				log.Warn().Err(err).Msg("skip failed")
			}
		}
		if st.Playing {
			skip()
		} else {
			// Starting from idle opens a stream; keep the other buttons live meanwhile.
			go skip()
		}

	case actionStop:
		if err := tr.engine.Stop(guildID); err != nil {
			log.Warn().Err(err).Msg("stop failed")
		}
		if err := comp.Update(ctx, interaction.Message{Content: "⏹️ Stopped."}); err != nil {
			log.Debug().Err(err).Msg("stop update failed")
		}
		return true

	case actionLoop:
		on := tr.engine.ToggleLoop(guildID)
		tr.notice(ctx, comp, "🔁 Loop: **"+onOff(on)+"**")
		tr.refresh(ctx, h, render, log)

	case actionShuffle:
		on := tr.engine.ToggleShuffle(guildID)
		tr.notice(ctx, comp, "🔀 Shuffle: **"+onOff(on)+"**")
		tr.refresh(ctx, h, render, log)

	default:
		tr.ack(ctx, comp)
	}
	return false
}

func (tr *Transport) refresh(ctx context.Context, h interaction.Handle, render func(bool) interaction.Message, log zerolog.Logger) {
	if err := h.Edit(ctx, render(false)); err != nil {
		log.Debug().Err(err).Msg("refresh controls failed")
	}
}

func (tr *Transport) ack(ctx context.Context, comp interaction.Component) {
	if err := comp.Ack(ctx); err != nil {
		tr.log.Debug().Err(err).Msg("component ack failed")
	}
}

func (tr *Transport) notice(ctx context.Context, comp interaction.Component, text string) {
	if err := comp.Reply(ctx, interaction.Message{Content: text, Ephemeral: true}); err != nil {
		tr.log.Debug().Err(err).Msg("component reply failed")
	}
}
