// Package interaction describes the chat surface the music commands talk to,
// independent of the transport that delivers it.
package interaction

import "context"

type ButtonStyle int

const (
	StyleSecondary ButtonStyle = iota
	StylePrimary
	StyleDanger
)

type Button struct {
	ID       string
	Label    string
	Emoji    string
	Style    ButtonStyle
	Disabled bool
}

type Option struct {
	Label       string
	Value       string
	Description string
}

// Menu is a single-choice selection menu.
type Menu struct {
	ID          string
	Placeholder string
	Options     []Option
	Disabled    bool
}

type Embed struct {
	Title       string
	Description string
	URL         string
	Thumbnail   string
	Footer      string
}

// Message is a complete rendering of a reply. Editing a message with a
// Message replaces all of its parts; a nil Menu and empty Buttons remove the
// components.
type Message struct {
	Content   string
	Embeds    []Embed
	Buttons   []Button
	Menu      *Menu
	Ephemeral bool
}

type User struct {
	ID   string
	Name string
}

// Handle is a message that was already sent.
type Handle interface {
	Edit(ctx context.Context, m Message) error
}

// Interaction is one command invocation. Every method may fail on delivery;
// callers log and carry on.
type Interaction interface {
	GuildID() string
	ChannelID() string
	User() User
	// Reply answers immediately.
	Reply(ctx context.Context, m Message) error
	// Defer acknowledges now and answers later with EditReply.
	Defer(ctx context.Context) error
	EditReply(ctx context.Context, m Message) (Handle, error)
	FollowUp(ctx context.Context, m Message) (Handle, error)
}

// Component is a button press or menu selection.
type Component interface {
	CustomID() string
	Values() []string
	User() User
	// Update replaces the message the component is attached to.
	Update(ctx context.Context, m Message) error
	// Ack acknowledges without changing anything.
	Ack(ctx context.Context) error
	// Reply sends a new response, ephemeral when m.Ephemeral is set.
	Reply(ctx context.Context, m Message) error
}
