package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/keshon/jukebox/internal/music/interaction"
	"github.com/keshon/jukebox/internal/music/interaction/interactiontest"
	"github.com/keshon/jukebox/pkg/cmd"

	"github.com/rs/zerolog"
)

type stub struct {
	ran int
	run func() error
}

func (s *stub) Name() string        { return "stub" }
func (s *stub) Description() string { return "stub" }
func (s *stub) Run(ctx context.Context, inv *cmd.Invocation) error {
	s.ran++
	if s.run != nil {
		return s.run()
	}
	return nil
}

func TestGuildOnly(t *testing.T) {
	s := &stub{}
	c := cmd.Apply(s, WithGuildOnly(zerolog.Nop()))

	dm := &interactiontest.Interaction{}
	if err := c.Run(context.Background(), &cmd.Invocation{Data: dm}); err != nil {
		t.Fatal(err)
	}
	if s.ran != 0 {
		t.Fatal("command ran outside a guild")
	}
	if r := dm.Replies(); len(r) != 1 || !r[0].Ephemeral {
		t.Errorf("replies = %+v", r)
	}

	inGuild := &interactiontest.Interaction{Guild: "g1"}
	_ = c.Run(context.Background(), &cmd.Invocation{Data: inGuild})
	if s.ran != 1 {
		t.Fatal("command did not run in a guild")
	}
}

func TestRecoveryAnswersPanics(t *testing.T) {
	s := &stub{run: func() error { panic("boom") }}
	c := cmd.Apply(s, WithRecovery(zerolog.Nop()))

	i := &interactiontest.Interaction{Guild: "g1"}
	err := c.Run(context.Background(), &cmd.Invocation{Data: i})
	if err == nil {
		t.Fatal("expected error from panic")
	}
	r := i.Replies()
	if len(r) != 1 || r[0].Content != internalErrorText {
		t.Errorf("replies = %+v", r)
	}
}

func TestRecoveryAnswersErrors(t *testing.T) {
	s := &stub{run: func() error { return errors.New("db down") }}
	c := cmd.Apply(s, WithCommandLogger(zerolog.Nop()), WithRecovery(zerolog.Nop()))

	i := &interactiontest.Interaction{Guild: "g1", Caller: interaction.User{Name: "ana"}}
	if err := c.Run(context.Background(), &cmd.Invocation{Data: i}); err == nil {
		t.Fatal("error should propagate")
	}
	if r := i.Replies(); len(r) != 1 || r[0].Content != internalErrorText {
		t.Errorf("replies = %+v", r)
	}
}
