package session

import "sync"

// Store maps guild ids to sessions. One live session per guild; sessions are
// created lazily and destroyed only through Remove.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the guild's session, creating an idle one if needed.
func (s *Store) GetOrCreate(guildID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[guildID]; ok {
		return sess
	}
	sess := newSession(guildID)
	s.sessions[guildID] = sess
	return sess
}

// Get returns the guild's session without creating one.
func (s *Store) Get(guildID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[guildID]
	return sess, ok
}

// Current reports whether sess is still the live session of its guild.
func (s *Store) Current(sess *Session) bool {
	if sess == nil || sess.Closed() {
		return false
	}
	live, ok := s.Get(sess.GuildID)
	return ok && live == sess
}

// Remove detaches the guild's session from the store and closes it.
func (s *Store) Remove(guildID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[guildID]
	delete(s.sessions, guildID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.Close()
}

// RemoveIf removes the guild's session only if cond holds for its state.
// The check and the removal happen under the store lock.
func (s *Store) RemoveIf(guildID string, cond func(State) bool) (bool, error) {
	s.mu.Lock()
	sess, ok := s.sessions[guildID]
	if !ok || !cond(sess.Snapshot()) {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.sessions, guildID)
	s.mu.Unlock()

	return true, sess.Close()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll removes every session. Used on shutdown.
func (s *Store) CloseAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		_ = s.Remove(id)
	}
}
