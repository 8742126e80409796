package memory

import (
	"sync"

	"github.com/cloudwego/eino/schema"
)

type channelKey struct {
	personaID string
	sessionID string
}

// Store keeps one conversation memory channel per (persona, session) pair, so
// switching personas never erases or corrupts another persona's context and
// re-entering a persona resumes its own history. Channels are append-only and
// live for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	channels map[channelKey][]*schema.Message
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{channels: make(map[channelKey][]*schema.Message)}
}

// Append adds messages to the persona's channel for the session, creating the
// channel on first use.
func (s *Store) Append(personaID, sessionID string, msgs ...*schema.Message) {
	if len(msgs) == 0 {
		return
	}

	key := channelKey{personaID: personaID, sessionID: sessionID}

	s.mu.Lock()
	s.channels[key] = append(s.channels[key], msgs...)
	s.mu.Unlock()
}

// History returns a copy of the persona's channel for the session, in append
// order. Unknown channels yield nil.
func (s *Store) History(personaID, sessionID string) []*schema.Message {
	key := channelKey{personaID: personaID, sessionID: sessionID}

	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.channels[key]
	if !ok {
		return nil
	}

	copied := make([]*schema.Message, len(msgs))
	copy(copied, msgs)
	return copied
}
