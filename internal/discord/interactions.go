package discord

import (
	"context"

	"github.com/keshon/jukebox/internal/music/interaction"

	"github.com/bwmarrin/discordgo"
)

// slashInteraction adapts a slash command event to interaction.Interaction.
type slashInteraction struct {
	s *discordgo.Session
	i *discordgo.InteractionCreate
}

func (a *slashInteraction) GuildID() string   { return a.i.GuildID }
func (a *slashInteraction) ChannelID() string { return a.i.ChannelID }
func (a *slashInteraction) User() interaction.User {
	return userOf(a.i)
}

func (a *slashInteraction) Reply(ctx context.Context, m interaction.Message) error {
	return a.s.InteractionRespond(a.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData(m),
	}, discordgo.WithContext(ctx))
}

func (a *slashInteraction) Defer(ctx context.Context) error {
	return a.s.InteractionRespond(a.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
}

func (a *slashInteraction) EditReply(ctx context.Context, m interaction.Message) (interaction.Handle, error) {
	h := &originalHandle{s: a.s, i: a.i}
	if err := h.Edit(ctx, m); err != nil {
		return nil, err
	}
	return h, nil
}

func (a *slashInteraction) FollowUp(ctx context.Context, m interaction.Message) (interaction.Handle, error) {
	msg, err := a.s.FollowupMessageCreate(a.i.Interaction, true, webhookParams(m), discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &followupHandle{s: a.s, i: a.i, messageID: msg.ID}, nil
}

type originalHandle struct {
	s *discordgo.Session
	i *discordgo.InteractionCreate
}

func (h *originalHandle) Edit(ctx context.Context, m interaction.Message) error {
	_, err := h.s.InteractionResponseEdit(h.i.Interaction, webhookEdit(m), discordgo.WithContext(ctx))
	return err
}

type followupHandle struct {
	s         *discordgo.Session
	i         *discordgo.InteractionCreate
	messageID string
}

func (h *followupHandle) Edit(ctx context.Context, m interaction.Message) error {
	_, err := h.s.FollowupMessageEdit(h.i.Interaction, h.messageID, webhookEdit(m), discordgo.WithContext(ctx))
	return err
}

// componentInteraction adapts a button or menu event to interaction.Component.
type componentInteraction struct {
	s *discordgo.Session
	i *discordgo.InteractionCreate
}

func (a *componentInteraction) CustomID() string { return a.i.MessageComponentData().CustomID }
func (a *componentInteraction) Values() []string { return a.i.MessageComponentData().Values }
func (a *componentInteraction) User() interaction.User {
	return userOf(a.i)
}

func (a *componentInteraction) Update(ctx context.Context, m interaction.Message) error {
	return a.s.InteractionRespond(a.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: responseData(m),
	}, discordgo.WithContext(ctx))
}

func (a *componentInteraction) Ack(ctx context.Context) error {
	return a.s.InteractionRespond(a.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx))
}

func (a *componentInteraction) Reply(ctx context.Context, m interaction.Message) error {
	return a.s.InteractionRespond(a.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: responseData(m),
	}, discordgo.WithContext(ctx))
}

// userOf returns the invoking user; guild events carry it on Member.
func userOf(i *discordgo.InteractionCreate) interaction.User {
	var u *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		u = i.Member.User
	case i.User != nil:
		u = i.User
	default:
		return interaction.User{ID: "unknown", Name: "Unknown"}
	}

	name := u.Username
	if u.GlobalName != "" {
		name = u.GlobalName
	}
	if i.Member != nil && i.Member.Nick != "" {
		name = i.Member.Nick
	}
	return interaction.User{ID: u.ID, Name: name}
}
