// Package controls binds buttons and selection menus to playback operations.
// Every affordance is served by a collector that lives for a fixed window.
package controls

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/keshon/jukebox/internal/music/interaction"

	"github.com/rs/zerolog"
)

// Handler processes one component event. Returning true closes the collector.
type Handler func(ctx context.Context, c interaction.Component) bool

type EndReason int

const (
	EndTimeout EndReason = iota
	EndDone
	EndCancelled
)

// Router routes component events to live collectors by custom-ID prefix.
// A custom ID is "<prefix>:<action>".
type Router struct {
	mu         sync.Mutex
	collectors map[string]*Collector
	log        zerolog.Logger
}

func NewRouter(log zerolog.Logger) *Router {
	return &Router{collectors: make(map[string]*Collector), log: log}
}

// Collector is one bounded-lifetime listener.
type Collector struct {
	prefix string
	fn     Handler
	router *Router

	mu     sync.Mutex
	ended  bool
	reason EndReason
	done   chan struct{}
	stop   chan struct{}
	once   sync.Once
}

// Collect starts routing events for prefix to fn until ttl elapses, fn
// returns true, ctx ends or Stop is called.
func (r *Router) Collect(ctx context.Context, prefix string, ttl time.Duration, fn Handler) *Collector {
	c := &Collector{
		prefix: prefix,
		fn:     fn,
		router: r,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}

	r.mu.Lock()
	if old, ok := r.collectors[prefix]; ok {
		defer old.end(EndCancelled)
	}
	r.collectors[prefix] = c
	r.mu.Unlock()

	go func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()
		select {
		case <-timer.C:
			c.end(EndTimeout)
		case <-ctx.Done():
			c.end(EndCancelled)
		case <-c.stop:
			c.end(EndCancelled)
		case <-c.done:
		}
	}()
	return c
}

// Done is closed when the collector ends.
func (c *Collector) Done() <-chan struct{} { return c.done }

// Reason reports why the collector ended. Valid once Done is closed.
func (c *Collector) Reason() EndReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

func (c *Collector) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// end waits for a running handler, so a late timer cannot interrupt a pick.
func (c *Collector) end(reason EndReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLocked(reason)
}

func (c *Collector) endLocked(reason EndReason) {
	if c.ended {
		return
	}
	c.ended = true
	c.reason = reason
	c.router.remove(c)
	close(c.done)
}

func (r *Router) remove(c *Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.collectors[c.prefix] == c {
		delete(r.collectors, c.prefix)
	}
}

// Dispatch delivers comp to its collector. Events nobody listens for any more
// get an ephemeral notice. It reports whether a collector took the event.
func (r *Router) Dispatch(ctx context.Context, comp interaction.Component) bool {
	id := comp.CustomID()
	prefix := id
	if i := strings.LastIndex(id, ":"); i > 0 {
		prefix = id[:i]
	}

	r.mu.Lock()
	c, ok := r.collectors[prefix]
	r.mu.Unlock()

	if ok && c.deliver(ctx, comp) {
		return true
	}

	r.log.Debug().Str("custom_id", id).Msg("component for expired collector")
	if err := comp.Reply(ctx, interaction.Message{Content: "⌛ These controls have expired.", Ephemeral: true}); err != nil {
		r.log.Debug().Err(err).Msg("expired notice failed")
	}
	return false
}

func (c *Collector) deliver(ctx context.Context, comp interaction.Component) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ended {
		return false
	}
	if c.fn(ctx, comp) {
		c.endLocked(EndDone)
	}
	return true
}

// Action returns the part of a custom ID after the prefix.
func Action(customID string) string {
	if i := strings.LastIndex(customID, ":"); i >= 0 {
		return customID[i+1:]
	}
	return customID
}
