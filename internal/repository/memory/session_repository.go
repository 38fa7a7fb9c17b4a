package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"clinical-scribe-be/internal/entity"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	// Expired sessions are purged every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// OnEvicted registers a teardown hook, used to release any capture buffer
// still open when a session expires.
func (r *SessionRepository) OnEvicted(fn func(sessionID string, session *entity.Session)) {
	r.cache.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*entity.Session); ok {
			fn(key, s)
		}
	})
}

func (r *SessionRepository) Save(session *entity.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
