package discord

import (
	"testing"

	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

func TestComponentsRendering(t *testing.T) {
	m := interaction.Message{
		Buttons: []interaction.Button{
			{ID: "ctl:1:toggle", Emoji: "⏯️"},
			{ID: "ctl:1:stop", Emoji: "⏹️", Style: interaction.StyleDanger, Disabled: true},
		},
		Menu: &interaction.Menu{ID: "pick:1:select", Options: []interaction.Option{{Label: "One", Value: "0"}}},
	}
	rows := components(m)
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}

	buttons := rows[0].(discordgo.ActionsRow).Components
	stop := buttons[1].(discordgo.Button)
	if stop.Style != discordgo.DangerButton || !stop.Disabled || stop.Emoji == nil || stop.Emoji.Name != "⏹️" {
		t.Errorf("stop button = %+v", stop)
	}

	menu := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	if menu.CustomID != "pick:1:select" || len(menu.Options) != 1 {
		t.Errorf("menu = %+v", menu)
	}
}

func TestWebhookEditClearsComponents(t *testing.T) {
	e := webhookEdit(interaction.Message{Content: "done"})
	if e.Components == nil || len(*e.Components) != 0 {
		t.Error("edit should send an empty component list")
	}
	if e.Content == nil || *e.Content != "done" {
		t.Error("content not set")
	}
}

func TestEphemeralFlag(t *testing.T) {
	if responseData(interaction.Message{Ephemeral: true}).Flags != discordgo.MessageFlagsEphemeral {
		t.Error("ephemeral flag missing")
	}
	if responseData(interaction.Message{}).Flags != 0 {
		t.Error("unexpected flags")
	}
}

func TestEmbedThumbnailOptional(t *testing.T) {
	es := embeds(interaction.Message{Embeds: []interaction.Embed{{Title: "a"}, {Title: "b", Thumbnail: "https://i", Footer: "YouTube"}}})
	if es[0].Thumbnail != nil || es[0].Footer != nil {
		t.Error("empty thumbnail and footer should be omitted")
	}
	if es[1].Thumbnail.URL != "https://i" || es[1].Footer.Text != "YouTube" {
		t.Errorf("embed = %+v", es[1])
	}
}

func TestHashIgnoresCommandOrderAndIDs(t *testing.T) {
	a := []*discordgo.ApplicationCommand{
		{Name: "play", Description: "Play", Options: []*discordgo.ApplicationCommandOption{{Name: "query", Type: discordgo.ApplicationCommandOptionString, Required: true}}},
		{Name: "skip", Description: "Skip"},
	}
	b := []*discordgo.ApplicationCommand{
		{ID: "2", Name: "skip", Description: "Skip", Type: discordgo.ChatApplicationCommand},
		{ID: "1", Name: "play", Description: "Play", Type: discordgo.ChatApplicationCommand, Options: []*discordgo.ApplicationCommandOption{{Name: "query", Type: discordgo.ApplicationCommandOptionString, Required: true}}},
	}
	if hashCommands(a) != hashCommands(b) {
		t.Error("equivalent sets should hash equal")
	}
	b[0].Description = "Skip it"
	if hashCommands(a) == hashCommands(b) {
		t.Error("changed description should change the hash")
	}
}

func TestCommandDefinitionsUnwrapMiddleware(t *testing.T) {
	r := cmd.NewRegistry()
	m := &music.Music{}
	passthrough := func(c cmd.Command) cmd.Command { return cmd.Wrap(c, c.Run) }
	for _, c := range m.Commands() {
		r.Register(c, passthrough)
	}

	defs := commandDefinitions(r)
	if len(defs) != len(m.Commands()) {
		t.Fatalf("got %d definitions, want %d", len(defs), len(m.Commands()))
	}
	for _, d := range defs {
		if d.Type != discordgo.ChatApplicationCommand {
			t.Errorf("%s has type %d", d.Name, d.Type)
		}
	}
}

func TestOptionValues(t *testing.T) {
	got := optionValues([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "query", Type: discordgo.ApplicationCommandOptionString, Value: "lofi"},
	})
	if got["query"] != "lofi" {
		t.Errorf("query = %q", got["query"])
	}
}

func TestHashTracksOptionOrder(t *testing.T) {
	opts := func(names ...string) []*discordgo.ApplicationCommandOption {
		var out []*discordgo.ApplicationCommandOption
		for _, n := range names {
			out = append(out, &discordgo.ApplicationCommandOption{Name: n, Type: discordgo.ApplicationCommandOptionString})
		}
		return out
	}
	a := []*discordgo.ApplicationCommand{{Name: "play", Options: opts("query", "source")}}
	b := []*discordgo.ApplicationCommand{{Name: "play", Options: opts("source", "query")}}
	if hashCommands(a) == hashCommands(b) {
		t.Error("reordered options should change the hash")
	}
}
