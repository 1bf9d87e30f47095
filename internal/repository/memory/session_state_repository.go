package memory

import (
	"time"

	"clinical-synth-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionStateRepository keeps per-session working state that never needs
// to survive a restart: the unsaved-changes flag and the last save error
// shown to the user.
type SessionStateRepository struct {
	cache *cache.Cache
}

func NewSessionStateRepository() *SessionStateRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStateRepository{
		cache: c,
	}
}

func (r *SessionStateRepository) Save(state *store.SessionState) {
	r.cache.Set(state.SessionID, state, cache.DefaultExpiration)
}

func (r *SessionStateRepository) Get(sessionID string) (*store.SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.SessionState), true
	}
	return nil, false
}

func (r *SessionStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
