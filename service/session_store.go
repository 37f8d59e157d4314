package service

import (
	"sync"
	"time"

	"coinbot/games"
)

type sessionKey struct {
	guildID int64
	userID  int64
}

type blackjackEntry struct {
	game      *games.BlackjackSession
	createdAt time.Time
}

// blackjackSessions holds in-flight blackjack rounds in memory. Sessions are
// reaped lazily on access; an expired session keeps its upfront bet debit, so
// walking away from a hand forfeits the bet.
type blackjackSessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[sessionKey]blackjackEntry
	now      func() time.Time
}

func newBlackjackSessions(ttl time.Duration) *blackjackSessions {
	return &blackjackSessions{
		ttl:      ttl,
		sessions: make(map[sessionKey]blackjackEntry),
		now:      time.Now,
	}
}

// Put stores a new session. Returns false when a live session already exists.
func (s *blackjackSessions) Put(guildID, userID int64, game *games.BlackjackSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{guildID, userID}
	s.reapLocked(key)
	if _, exists := s.sessions[key]; exists {
		return false
	}
	s.sessions[key] = blackjackEntry{game: game, createdAt: s.now()}
	return true
}

// Get returns the member's live session, or nil.
func (s *blackjackSessions) Get(guildID, userID int64) *games.BlackjackSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{guildID, userID}
	s.reapLocked(key)
	entry, ok := s.sessions[key]
	if !ok {
		return nil
	}
	return entry.game
}

// Delete removes the member's session.
func (s *blackjackSessions) Delete(guildID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{guildID, userID})
}

func (s *blackjackSessions) reapLocked(key sessionKey) {
	entry, ok := s.sessions[key]
	if ok && s.now().Sub(entry.createdAt) >= s.ttl {
		delete(s.sessions, key)
	}
}
