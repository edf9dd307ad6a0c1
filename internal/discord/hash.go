package discord

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// commandShape is the part of an application command that a user can see.
// IDs and versions assigned by Discord are left out so a freshly built set
// compares equal to the one fetched back.
type commandShape struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Type        discordgo.ApplicationCommandType `json:"type"`
	Options     []optionShape                    `json:"options,omitempty"`
}

type optionShape struct {
	Name        string                                 `json:"name"`
	Description string                                 `json:"description"`
	Type        discordgo.ApplicationCommandOptionType `json:"type"`
	Required    bool                                   `json:"required"`
	Choices     []choiceShape                          `json:"choices,omitempty"`
	Options     []optionShape                          `json:"options,omitempty"`
}

type choiceShape struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// hashCommands returns a deterministic digest of a command set. Commands are
// compared by name regardless of order; options keep their declared order
// because Discord displays them that way.
func hashCommands(cmds []*discordgo.ApplicationCommand) string {
	shapes := make([]commandShape, 0, len(cmds))
	for _, c := range cmds {
		typ := c.Type
		if typ == 0 {
			typ = discordgo.ChatApplicationCommand
		}
		shapes = append(shapes, commandShape{
			Name:        c.Name,
			Description: c.Description,
			Type:        typ,
			Options:     optionShapes(c.Options),
		})
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Name < shapes[j].Name })

	data, _ := json.Marshal(shapes)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func optionShapes(opts []*discordgo.ApplicationCommandOption) []optionShape {
	if len(opts) == 0 {
		return nil
	}
	out := make([]optionShape, len(opts))
	for i, o := range opts {
		out[i] = optionShape{
			Name:        o.Name,
			Description: o.Description,
			Type:        o.Type,
			Required:    o.Required,
			Options:     optionShapes(o.Options),
		}
		for _, c := range o.Choices {
			out[i].Choices = append(out[i].Choices, choiceShape{Name: c.Name, Value: c.Value})
		}
	}
	return out
}
