// Package player is the playback engine: the per-guild state machine that
// decides what plays next and absorbs stream failures without stalling the
// queue.
//
// A session is Idle or Playing. Advance pops one track and tries to open it;
// failures are discarded and the next track is tried. When a track ends for
// any reason (natural end, skip) the sink calls onIdle, which re-queues the
// track if loop is on, marks the session idle and advances again.
package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/keshon/jukebox/internal/music/session"
	"github.com/keshon/jukebox/internal/music/stream"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/rs/zerolog"
)

var (
	ErrNoSession     = errors.New("no active session")
	ErrNotPlaying    = errors.New("nothing is playing")
	ErrNothingToSkip = errors.New("nothing to skip")
	ErrNoConnection  = errors.New("not connected to voice")
)

// Notifier receives user-visible playback events for a session.
type Notifier interface {
	NowPlaying(ctx context.Context, t track.Track)
	Skipped(ctx context.Context, t track.Track, err error)
}

// Options configures an Engine.
type Options struct {
	Store *session.Store
	Sink  stream.Sink
	// ReadyTimeout bounds the voice handshake; 15s when zero.
	ReadyTimeout time.Duration
	// Intn picks the shuffle index in [0, n); math/rand/v2 when nil.
	Intn func(n int) int
	// Context is the lifetime of streams and notifications.
	Context context.Context
	Logger  zerolog.Logger
}

// Engine drives every session in its store.
type Engine struct {
	store        *session.Store
	sink         stream.Sink
	readyTimeout time.Duration
	intn         func(n int) int
	ctx          context.Context
	log          zerolog.Logger
}

// New returns an Engine.
func New(opts Options) *Engine {
	if opts.Store == nil {
		opts.Store = session.NewStore()
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 15 * time.Second
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Engine{
		store:        opts.Store,
		sink:         opts.Sink,
		readyTimeout: opts.ReadyTimeout,
		intn:         opts.Intn,
		ctx:          opts.Context,
		log:          opts.Logger,
	}
}

// Store returns the session store the engine works on.
func (e *Engine) Store() *session.Store { return e.store }

// Connect makes sure the guild's session owns a voice connection. A handshake
// that does not finish within the ready timeout is logged and the not-ready
// connection is kept.
func (e *Engine) Connect(ctx context.Context, guildID, channelID string) error {
	sess := e.store.GetOrCreate(guildID)
	if sess.Connection() != nil {
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, e.readyTimeout)
	defer cancel()

	conn, err := e.sink.Connect(cctx, guildID, channelID)
	switch {
	case errors.Is(err, stream.ErrNotReady) && conn != nil:
		e.log.Warn().Str("guild", guildID).Str("channel", channelID).Dur("timeout", e.readyTimeout).Msg("voice connect degraded")
	case err != nil:
		return fmt.Errorf("connect voice: %w", err)
	}

	// A stop may have run during the handshake.
	if !e.store.Current(sess) {
		_ = conn.Disconnect()
		return ErrNoSession
	}
	if !sess.SetConnection(conn) {
		// Lost a race with a concurrent connect; keep the first handle.
		if sess.Connection() != conn {
			_ = conn.Disconnect()
		}
	}
	return nil
}

// Enqueue appends t to the guild's queue and returns its 1-based position and
// whether the session is idle (in which case the caller should Advance).
func (e *Engine) Enqueue(guildID string, t track.Track) (position int, idle bool) {
	sess := e.store.GetOrCreate(guildID)
	sess.Update(func(st *session.State) {
		st.Queue = append(st.Queue, t)
		position = len(st.Queue)
		idle = !st.Playing
	})
	e.log.Debug().Str("guild", guildID).Str("title", t.Title).Int("position", position).Msg("enqueued")
	return position, idle
}

// Advance starts the next track if the guild is idle. n, when not nil,
// replaces the session's notifier. It returns once a track is playing or the
// queue is exhausted.
func (e *Engine) Advance(guildID string, n Notifier) {
	sess, ok := e.store.Get(guildID)
	if !ok {
		return
	}
	if n != nil {
		sess.Attach(n)
	}
	e.advance(sess)
}

func (e *Engine) advance(sess *session.Session) {
	for {
		var (
			next   track.Track
			popped bool
		)
		sess.Update(func(st *session.State) {
			if st.Playing {
				return
			}
			next, popped = e.pick(st)
			if popped {
				st.Playing = true
				st.Current = &next
				st.Opening = true
				st.SkipPending = false
			}
		})
		if !popped {
			return
		}

		s, err := e.open(sess, next)

		if !e.store.Current(sess) {
			if s != nil {
				_ = s.Close()
			}
			return
		}

		if err != nil {
			e.log.Warn().Err(err).Str("guild", sess.GuildID).Str("title", next.Title).Str("url", next.URL).Msg("stream open failed, skipping")
			sess.Update(func(st *session.State) {
				st.Playing = false
				st.Current = nil
				st.Opening = false
				st.SkipPending = false
			})
			if n := notifierOf(sess); n != nil {
				n.Skipped(e.ctx, next, err)
			}
			continue
		}

		var skipped bool
		sess.Update(func(st *session.State) {
			if st.SkipPending {
				skipped = true
				ended(st, next)
			}
		})
		if skipped {
			_ = s.Close()
			e.log.Info().Str("guild", sess.GuildID).Str("title", next.Title).Msg("skipped while opening")
			continue
		}

		conn, ok := sess.Connection().(stream.Connection)
		if !ok {
			// Closed between the check above and now.
			_ = s.Close()
			return
		}

		finished := next
		var once sync.Once
		conn.Play(s, func() {
			once.Do(func() { e.finish(sess, finished) })
		})

		// A skip that raced the bind above still needs the stream to stop.
		var late bool
		sess.Update(func(st *session.State) {
			st.Opening = false
			late = st.SkipPending
			st.SkipPending = false
		})
		if late {
			conn.StopCurrent()
			return
		}

		e.log.Info().Str("guild", sess.GuildID).Str("title", next.Title).Str("parser", s.Parser()).Msg("now playing")
		if n := notifierOf(sess); n != nil {
			n.NowPlaying(e.ctx, next)
		}
		return
	}
}

func (e *Engine) open(sess *session.Session, t track.Track) (stream.Stream, error) {
	conn, ok := sess.Connection().(stream.Connection)
	if !ok || conn == nil {
		return nil, ErrNoConnection
	}
	return conn.OpenStream(e.ctx, t.URL)
}

// pick removes the next track per the selection policy. Caller holds the lock.
func (e *Engine) pick(st *session.State) (track.Track, bool) {
	if len(st.Queue) == 0 {
		return track.Track{}, false
	}
	idx := 0
	if st.Shuffle && len(st.Queue) > 1 {
		idx = e.intn(len(st.Queue))
	}
	t := st.Queue[idx]
	st.Queue = append(st.Queue[:idx], st.Queue[idx+1:]...)
	return t, true
}

// finish is the single "track ended" transition, reached from natural
// completion and from Skip alike.
func (e *Engine) finish(sess *session.Session, t track.Track) {
	if !e.store.Current(sess) {
		return
	}
	sess.Update(func(st *session.State) { ended(st, t) })
	e.advance(sess)
}

// ended is the state half of a track ending: loop re-queues it and the
// session goes idle. Caller holds the lock.
func ended(st *session.State, t track.Track) {
	if st.Loop {
		st.Queue = append(st.Queue, t)
	}
	st.Playing = false
	st.Current = nil
	st.Opening = false
	st.SkipPending = false
}

// Skip stops the current track; its completion advances the queue. When idle
// with a non-empty queue it starts playback instead.
func (e *Engine) Skip(guildID string) error {
	sess, ok := e.store.Get(guildID)
	if !ok {
		return ErrNoSession
	}

	var playing, pending, queued bool
	sess.Update(func(st *session.State) {
		playing = st.Playing
		queued = len(st.Queue) > 0
		if st.Playing && st.Opening {
			// Nothing is bound yet; advance drops the track once it opens.
			st.SkipPending = true
			pending = true
		}
	})
	switch {
	case pending:
		return nil
	case playing:
		if conn := sess.Connection(); conn != nil {
			conn.StopCurrent()
		}
		return nil
	case queued:
		e.advance(sess)
		return nil
	default:
		return ErrNothingToSkip
	}
}

// PauseToggle pauses a rendering track or resumes a paused one. It reports
// whether playback is now paused.
func (e *Engine) PauseToggle(guildID string) (bool, error) {
	sess, ok := e.store.Get(guildID)
	if !ok {
		return false, ErrNoSession
	}
	if !sess.Snapshot().Playing {
		return false, ErrNotPlaying
	}

	conn, ok := sess.Connection().(stream.Connection)
	if !ok || conn == nil {
		return false, ErrNoConnection
	}
	if conn.Paused() {
		conn.Resume()
		return false, nil
	}
	conn.Pause()
	return true, nil
}

// ToggleLoop flips loop and returns the new value.
func (e *Engine) ToggleLoop(guildID string) bool {
	var on bool
	e.store.GetOrCreate(guildID).Update(func(st *session.State) {
		st.Loop = !st.Loop
		on = st.Loop
	})
	return on
}

// ToggleShuffle flips shuffle and returns the new value.
func (e *Engine) ToggleShuffle(guildID string) bool {
	var on bool
	e.store.GetOrCreate(guildID).Update(func(st *session.State) {
		st.Shuffle = !st.Shuffle
		on = st.Shuffle
	})
	return on
}

// Stop ends playback, clears the queue, releases voice and forgets the
// session. The next play starts from a fresh session.
func (e *Engine) Stop(guildID string) error {
	e.log.Info().Str("guild", guildID).Msg("stop")
	return e.store.Remove(guildID)
}

// Release forgets the guild's session and leaves voice, but only while
// nothing is playing and the queue is empty.
func (e *Engine) Release(guildID string) bool {
	removed, err := e.store.RemoveIf(guildID, func(st session.State) bool {
		return !st.Playing && st.Current == nil && len(st.Queue) == 0
	})
	if err != nil {
		e.log.Debug().Err(err).Str("guild", guildID).Msg("release: close failed")
	}
	if removed {
		e.log.Info().Str("guild", guildID).Msg("released idle session")
	}
	return removed
}

// QueueView is what the queue command renders.
type QueueView struct {
	Current  *track.Track
	Upcoming []track.Track
	Total    int
	Loop     bool
	Shuffle  bool
}

// Queue returns the current track and at most limit upcoming tracks.
func (e *Engine) Queue(guildID string, limit int) QueueView {
	sess, ok := e.store.Get(guildID)
	if !ok {
		return QueueView{}
	}
	st := sess.Snapshot()
	v := QueueView{Current: st.Current, Total: len(st.Queue), Loop: st.Loop, Shuffle: st.Shuffle}
	if limit > 0 && len(st.Queue) > limit {
		v.Upcoming = st.Queue[:limit]
	} else {
		v.Upcoming = st.Queue
	}
	return v
}

// State returns a snapshot of the guild's session, if any.
func (e *Engine) State(guildID string) (session.State, bool) {
	sess, ok := e.store.Get(guildID)
	if !ok {
		return session.State{}, false
	}
	return sess.Snapshot(), true
}

// Shutdown stops every session.
func (e *Engine) Shutdown() {
	e.store.CloseAll()
}

func notifierOf(sess *session.Session) Notifier {
	n, _ := sess.Attachment().(Notifier)
	return n
}
