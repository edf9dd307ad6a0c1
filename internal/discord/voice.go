package discord

import (
	"fmt"

	"github.com/keshon/jukebox/internal/command/music"

	"github.com/bwmarrin/discordgo"
)

const voicePermissions = discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak

// UserVoiceChannel returns the voice channel userID is connected to in
// guildID. It fails with music.ErrVoiceForbidden when the bot may not join or
// speak there.
func (b *Bot) UserVoiceChannel(guildID, userID string) (string, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID != userID || vs.ChannelID == "" {
			continue
		}
		if !b.canJoin(vs.ChannelID) {
			return "", music.ErrVoiceForbidden
		}
		return vs.ChannelID, nil
	}
	return "", music.ErrNotInVoice
}

// canJoin reports whether the bot has connect and speak permissions in a
// channel. Unknown permissions count as allowed; the join itself will tell.
func (b *Bot) canJoin(channelID string) bool {
	if b.dg.State.User == nil {
		return true
	}
	perms, err := b.dg.State.UserChannelPermissions(b.dg.State.User.ID, channelID)
	if err != nil {
		return true
	}
	return perms&voicePermissions == voicePermissions
}
