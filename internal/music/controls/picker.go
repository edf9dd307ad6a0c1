package controls

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPickTTL is how long the requester has to choose.
const DefaultPickTTL = 60 * time.Second

var ErrSelectionTimeout = errors.New("selection timed out")

// Picker shows search candidates and waits for the requester's choice.
type Picker struct {
	router *Router
	TTL    time.Duration
	log    zerolog.Logger
}

func NewPicker(router *Router, log zerolog.Logger) *Picker {
	return &Picker{router: router, TTL: DefaultPickTTL, log: log}
}

// Pick renders candidates as a menu on the deferred reply of inter and
// blocks until the invoking user picks one. Only one pick is accepted. On
// timeout the reply says so and ErrSelectionTimeout is returned.
func (p *Picker) Pick(ctx context.Context, inter interaction.Interaction, candidates []track.Candidate) (track.Candidate, error) {
	if len(candidates) == 0 {
		return track.Candidate{}, errors.New("no candidates")
	}

	prefix := "pick:" + uuid.NewString()
	requester := inter.User().ID

	menu := &interaction.Menu{ID: prefix + ":select", Placeholder: "Choose a track"}
	for i, c := range candidates {
		menu.Options = append(menu.Options, interaction.Option{
			Label:       truncate(fmt.Sprintf("%d. %s", i+1, c.Title), 100),
			Value:       strconv.Itoa(i),
			Description: c.SourceLabel,
		})
	}

	var chosen track.Candidate
	c := p.router.Collect(ctx, prefix, p.TTL, func(ctx context.Context, comp interaction.Component) bool {
		if comp.User().ID != requester {
			if err := comp.Reply(ctx, interaction.Message{Content: "Only the person who ran this command can pick.", Ephemeral: true}); err != nil {
				p.log.Debug().Err(err).Msg("picker refusal failed")
			}
			return false
		}

		idx := -1
		if vals := comp.Values(); len(vals) > 0 {
			if n, err := strconv.Atoi(vals[0]); err == nil && n >= 0 && n < len(candidates) {
				idx = n
			}
		}
		if idx < 0 {
			if err := comp.Ack(ctx); err != nil {
				p.log.Debug().Err(err).Msg("picker ack failed")
			}
			return false
		}

		chosen = candidates[idx]
		if err := comp.Update(ctx, interaction.Message{Content: "✅ Selected: **" + chosen.Title + "**"}); err != nil {
			p.log.Debug().Err(err).Msg("picker update failed")
		}
		return true
	})

	// Listen before the menu is visible so no early pick is lost.
	h, err := inter.EditReply(ctx, interaction.Message{
		Content: "🔎 Pick a track:",
		Embeds:  []interaction.Embed{resultsEmbed(candidates)},
		Menu:    menu,
	})
	if err != nil {
		c.Stop()
		return track.Candidate{}, fmt.Errorf("show picker: %w", err)
	}

	<-c.Done()
	if c.Reason() == EndDone {
		return chosen, nil
	}

	if err := h.Edit(context.Background(), interaction.Message{Content: "⌛ Time's up, nothing was added."}); err != nil {
		p.log.Debug().Err(err).Msg("picker timeout edit failed")
	}
	if c.Reason() == EndCancelled && ctx.Err() != nil {
		return track.Candidate{}, ctx.Err()
	}
	return track.Candidate{}, ErrSelectionTimeout
}

// resultsEmbed lists the candidates by number under the providers they came
// from.
func resultsEmbed(candidates []track.Candidate) interaction.Embed {
	var labels []string
	seen := make(map[string]bool)
	var b strings.Builder
	for i, c := range candidates {
		if c.SourceLabel != "" && !seen[c.SourceLabel] {
			seen[c.SourceLabel] = true
			labels = append(labels, c.SourceLabel)
		}
		fmt.Fprintf(&b, "%d. **%s**", i+1, truncate(c.Title, 80))
		if c.SourceLabel != "" {
			b.WriteString(" · " + c.SourceLabel)
		}
		b.WriteByte('\n')
	}

	title := "🔎 Results"
	if len(labels) > 0 {
		title += " (" + strings.Join(labels, ", ") + ")"
	}
	return interaction.Embed{Title: title, Description: strings.TrimSuffix(b.String(), "\n")}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
