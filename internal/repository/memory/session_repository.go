package memory

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"vaulta-banking-be/pkg/store"
)

// SessionRepository keeps conversation state in process memory. Each entry
// expires after its channel's idle timeout.
type SessionRepository struct {
	cache *cache.Cache
	ttls  store.TTLs
}

func NewSessionRepository(ttls store.TTLs) *SessionRepository {
	if ttls == nil {
		ttls = store.DefaultTTLs()
	}
	// Default expiration is never used; Save always passes the channel TTL.
	c := cache.New(30*time.Minute, 1*time.Minute)
	return &SessionRepository{
		cache: c,
		ttls:  ttls,
	}
}

func (r *SessionRepository) Load(ctx context.Context, id string, channel store.Channel) (store.ConversationSession, error) {
	if x, found := r.cache.Get(id); found {
		return x.(store.ConversationSession).Clone(), nil
	}
	return store.NewSession(id, channel), nil
}

func (r *SessionRepository) Save(ctx context.Context, session store.ConversationSession) error {
	r.cache.Set(session.ID, session.Clone(), r.ttls.For(session.Channel))
	return nil
}

func (r *SessionRepository) Reset(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) List(ctx context.Context) ([]store.ConversationSession, error) {
	items := r.cache.Items()
	out := make([]store.ConversationSession, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(store.ConversationSession).Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func (r *SessionRepository) ResetAll(ctx context.Context) (int, error) {
	n := r.cache.ItemCount()
	r.cache.Flush()
	return n, nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return nil
}
