package discord

import (
	"github.com/keshon/jukebox/internal/music/interaction"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0xb01e66

func embeds(m interaction.Message) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(m.Embeds))
	for _, e := range m.Embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       EmbedColor,
		}
		if e.Thumbnail != "" {
			me.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
		}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		out = append(out, me)
	}
	return out
}

func buttonStyle(s interaction.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case interaction.StylePrimary:
		return discordgo.PrimaryButton
	case interaction.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

// components renders buttons as one action row and the menu as another.
func components(m interaction.Message) []discordgo.MessageComponent {
	rows := []discordgo.MessageComponent{}

	if len(m.Buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range m.Buttons {
			btn := discordgo.Button{
				CustomID: b.ID,
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				Disabled: b.Disabled,
			}
			if b.Emoji != "" {
				btn.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
			}
			row.Components = append(row.Components, btn)
		}
		rows = append(rows, row)
	}

	if m.Menu != nil {
		menu := discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    m.Menu.ID,
			Placeholder: m.Menu.Placeholder,
			Disabled:    m.Menu.Disabled,
		}
		for _, o := range m.Menu.Options {
			menu.Options = append(menu.Options, discordgo.SelectMenuOption{
				Label:       o.Label,
				Value:       o.Value,
				Description: o.Description,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}})
	}
	return rows
}

func flags(m interaction.Message) discordgo.MessageFlags {
	if m.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func responseData(m interaction.Message) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    m.Content,
		Embeds:     embeds(m),
		Components: components(m),
		Flags:      flags(m),
	}
}

func webhookParams(m interaction.Message) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:    m.Content,
		Embeds:     embeds(m),
		Components: components(m),
		Flags:      flags(m),
	}
}

// webhookEdit replaces every part of the message, clearing what m leaves
// empty.
func webhookEdit(m interaction.Message) *discordgo.WebhookEdit {
	content := m.Content
	em := embeds(m)
	comps := components(m)
	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &em,
		Components: &comps,
	}
}
