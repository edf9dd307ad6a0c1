package music

import (
	"context"

	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

type SkipCommand struct{ m *Music }

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip to the next track" }
func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return plain(c.Name(), c.Description())
}

func (c *SkipCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}
	guildID := inter.GuildID()

	st, ok := c.m.Engine.State(guildID)
	if !ok || (!st.Playing && len(st.Queue) == 0) {
		c.m.reply(ctx, inter, "Nothing to skip.")
		return nil
	}
	c.m.reply(ctx, inter, "⏭️ Skipped.")
	if err := c.m.Engine.Skip(guildID); err != nil {
		c.m.Log.Debug().Err(err).Str("guild", guildID).Msg("skip")
	}
	return nil
}

type StopCommand struct{ m *Music }

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback, clear the queue and leave" }
func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return plain(c.Name(), c.Description())
}

func (c *StopCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}
	if err := c.m.Engine.Stop(inter.GuildID()); err != nil {
		c.m.Log.Warn().Err(err).Str("guild", inter.GuildID()).Msg("stop")
	}
	c.m.reply(ctx, inter, "⏹️ Stopped and left the voice channel.")
	return nil
}

type PauseCommand struct{ m *Music }

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause or resume playback" }
func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return plain(c.Name(), c.Description())
}

func (c *PauseCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}
	paused, err := c.m.Engine.PauseToggle(inter.GuildID())
	switch {
	case err != nil:
		c.m.reply(ctx, inter, "Nothing is playing.")
	case paused:
		c.m.reply(ctx, inter, "⏸️ Paused.")
	default:
		c.m.reply(ctx, inter, "▶️ Resumed.")
	}
	return nil
}

type LoopCommand struct{ m *Music }

func (c *LoopCommand) Name() string        { return "loop" }
func (c *LoopCommand) Description() string { return "Toggle looping of the queue" }
func (c *LoopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return plain(c.Name(), c.Description())
}

func (c *LoopCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}
	on := c.m.Engine.ToggleLoop(inter.GuildID())
	c.m.reply(ctx, inter, "🔁 Loop: **"+onOff(on)+"**")
	return nil
}

type ShuffleCommand struct{ m *Music }

func (c *ShuffleCommand) Name() string        { return "shuffle" }
func (c *ShuffleCommand) Description() string { return "Toggle shuffled playback" }
func (c *ShuffleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return plain(c.Name(), c.Description())
}

func (c *ShuffleCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	inter, err := interactionOf(inv)
	if err != nil {
		return err
	}
	on := c.m.Engine.ToggleShuffle(inter.GuildID())
	c.m.reply(ctx, inter, "🔀 Shuffle: **"+onOff(on)+"**")
	return nil
}
