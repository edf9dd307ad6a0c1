// Package session holds per-guild playback state and the store that owns it.
package session

import (
	"slices"
	"sync"

	"github.com/keshon/jukebox/internal/music/track"
)

// Connection is the voice handle a session owns. It is the subset of the
// voice sink the session needs to release itself; the player uses the full
// stream.Connection.
type Connection interface {
	StopCurrent()
	Disconnect() error
}

// State is a copy of the mutable fields of a session.
type State struct {
	Queue   []track.Track
	Playing bool
	Loop    bool
	Shuffle bool
	Current *track.Track

	// Opening is set while the current track's stream is being opened and
	// not yet bound to the voice connection.
	Opening     bool
	// SkipPending records a skip that arrived while Opening.
	SkipPending bool
}

// Session is the mutable playback state of one guild. All fields are guarded
// by the session lock; use Update and Snapshot.
type Session struct {
	GuildID string

	mu     sync.Mutex
	state  State
	conn   Connection
	extra  any
	closed bool
}

func newSession(guildID string) *Session {
	return &Session{GuildID: guildID}
}

// Update runs fn with exclusive access to the session state. fn must not block.
func (s *Session) Update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Snapshot returns a deep copy of the state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Queue = slices.Clone(s.state.Queue)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	return st
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Connection returns the owned voice handle, or nil.
func (s *Session) Connection() Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// SetConnection stores the voice handle unless the session is closed or
// already owns one. It reports whether conn was taken.
func (s *Session) SetConnection(conn Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.conn != nil {
		return false
	}
	s.conn = conn
	return true
}

// Attachment returns the value bound with Attach.
func (s *Session) Attachment() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extra
}

// Attach binds an arbitrary value (the player keeps its notifier here).
func (s *Session) Attach(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = v
}

// Close is terminal: the queue is cleared and the voice handle stopped and
// disconnected. Calling it twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.state = State{}
	conn := s.conn
	s.conn = nil
	s.extra = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	conn.StopCurrent()
	return conn.Disconnect()
}
