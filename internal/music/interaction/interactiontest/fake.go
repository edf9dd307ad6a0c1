// Package interactiontest provides recording fakes of the interaction types.
package interactiontest

import (
	"context"
	"sync"

	"github.com/keshon/jukebox/internal/music/interaction"
)

// Handle records edits of one sent message.
type Handle struct {
	mu    sync.Mutex
	First interaction.Message
	edits []interaction.Message
	Err   error
}

func (h *Handle) Edit(ctx context.Context, m interaction.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.edits = append(h.edits, m)
	return nil
}

// Edits returns every edit so far.
func (h *Handle) Edits() []interaction.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]interaction.Message(nil), h.edits...)
}

// Latest returns the last edit, or the original message.
func (h *Handle) Latest() interaction.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.edits) == 0 {
		return h.First
	}
	return h.edits[len(h.edits)-1]
}

// Interaction is a recording interaction.Interaction. Err, when set, fails
// every delivery.
type Interaction struct {
	Guild   string
	Channel string
	Caller  interaction.User
	Err     error

	mu        sync.Mutex
	deferred  bool
	replies   []interaction.Message
	original  *Handle
	followUps []*Handle
}

func (i *Interaction) GuildID() string        { return i.Guild }
func (i *Interaction) ChannelID() string      { return i.Channel }
func (i *Interaction) User() interaction.User { return i.Caller }

func (i *Interaction) Reply(ctx context.Context, m interaction.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return i.Err
	}
	i.replies = append(i.replies, m)
	return nil
}

func (i *Interaction) Defer(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return i.Err
	}
	i.deferred = true
	return nil
}

func (i *Interaction) EditReply(ctx context.Context, m interaction.Message) (interaction.Handle, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return nil, i.Err
	}
	if i.original == nil {
		i.original = &Handle{First: m}
		return i.original, nil
	}
	i.original.mu.Lock()
	i.original.edits = append(i.original.edits, m)
	i.original.mu.Unlock()
	return i.original, nil
}

func (i *Interaction) FollowUp(ctx context.Context, m interaction.Message) (interaction.Handle, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Err != nil {
		return nil, i.Err
	}
	h := &Handle{First: m}
	i.followUps = append(i.followUps, h)
	return h, nil
}

func (i *Interaction) Deferred() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.deferred
}

func (i *Interaction) Replies() []interaction.Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]interaction.Message(nil), i.replies...)
}

// Original returns the deferred reply handle, nil until EditReply ran.
func (i *Interaction) Original() *Handle {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.original
}

func (i *Interaction) FollowUps() []*Handle {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]*Handle(nil), i.followUps...)
}

// Component is a recording interaction.Component.
type Component struct {
	ID     string
	Vals   []string
	Caller interaction.User
	Err    error

	mu      sync.Mutex
	acks    int
	updates []interaction.Message
	replies []interaction.Message
}

func (c *Component) CustomID() string       { return c.ID }
func (c *Component) Values() []string       { return c.Vals }
func (c *Component) User() interaction.User { return c.Caller }

func (c *Component) Update(ctx context.Context, m interaction.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.updates = append(c.updates, m)
	return nil
}

func (c *Component) Ack(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.acks++
	return nil
}

func (c *Component) Reply(ctx context.Context, m interaction.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.replies = append(c.replies, m)
	return nil
}

func (c *Component) Acks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acks
}

func (c *Component) Updates() []interaction.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interaction.Message(nil), c.updates...)
}

func (c *Component) Replies() []interaction.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interaction.Message(nil), c.replies...)
}
