package routing

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roadbite/roadbite/internal/model/persona"
)

// ErrUnknownPersona is returned when a hand-off targets an id that is not in
// the persona store. The previous mapping is left untouched.
var ErrUnknownPersona = errors.New("unknown persona")

const (
	sessionKeyPrefix  = "session:"
	activePersonaHKey = "active_persona"
	activeSessionsKey = "active_sessions"
	mirrorTimeout     = 2 * time.Second
	mirrorTTL         = 24 * time.Hour
)

// SessionRouter is the single source of truth for which persona serves a
// session. Unseen sessions resolve to the orchestrator. When a Redis client is
// supplied, the mapping is mirrored best-effort so it survives restarts;
// mirror failures are logged and never propagated.
type SessionRouter struct {
	mu       sync.RWMutex
	active   map[string]string
	personas persona.Store
	rdb      *redis.Client
}

// New creates a SessionRouter backed by the given persona store. rdb may be nil.
func New(personas persona.Store, rdb *redis.Client) *SessionRouter {
	return &SessionRouter{
		active:   make(map[string]string),
		personas: personas,
		rdb:      rdb,
	}
}

// ActivePersona returns the persona currently serving the session. This is a
// total function: sessions never seen before answer with the orchestrator id.
func (r *SessionRouter) ActivePersona(ctx context.Context, sessionID string) string {
	r.mu.RLock()
	id, ok := r.active[sessionID]
	r.mu.RUnlock()
	if ok {
		return id
	}

	if id := r.recoverFromMirror(ctx, sessionID); id != "" {
		return id
	}
	return persona.OrchestratorID
}

// Activate points the session at a new persona. Setting the already-active
// persona is an observable no-op. Fails with ErrUnknownPersona for ids missing
// from the store, leaving the mapping unchanged.
func (r *SessionRouter) Activate(ctx context.Context, sessionID, personaID string) error {
	if _, ok := r.personas.FindByID(personaID); !ok {
		return ErrUnknownPersona
	}

	r.mu.Lock()
	r.active[sessionID] = personaID
	r.mu.Unlock()

	r.mirror(ctx, sessionID, personaID)
	return nil
}

// recoverFromMirror loads a previously mirrored mapping after a restart. The
// recovered id is re-validated against the store in case the persona set
// changed between deployments.
func (r *SessionRouter) recoverFromMirror(ctx context.Context, sessionID string) string {
	if r.rdb == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
	defer cancel()

	id, err := r.rdb.HGet(ctx, sessionKeyPrefix+sessionID, activePersonaHKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[router] mirror read failed for session=%s: %v", sessionID, err)
		}
		return ""
	}
	if _, ok := r.personas.FindByID(id); !ok {
		return ""
	}

	r.mu.Lock()
	// Another request may have activated a persona while we were reading the
	// mirror; the in-memory entry wins.
	if current, ok := r.active[sessionID]; ok {
		id = current
	} else {
		r.active[sessionID] = id
	}
	r.mu.Unlock()
	return id
}

func (r *SessionRouter) mirror(ctx context.Context, sessionID, personaID string) {
	if r.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
	defer cancel()

	key := sessionKeyPrefix + sessionID
	if err := r.rdb.HSet(ctx, key, activePersonaHKey, personaID).Err(); err != nil {
		log.Printf("[router] mirror write failed for session=%s: %v", sessionID, err)
		return
	}
	r.rdb.SAdd(ctx, activeSessionsKey, sessionID)
	r.rdb.Expire(ctx, key, mirrorTTL)
}
