package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"vaulta-banking-be/pkg/store"
)

const sessionKeyPrefix = "vaulta:session:"

// secrets is the part of a session that never leaves this process.
type secrets struct {
	customerID        string
	pendingCustomerID string
}

// SessionRepository stores the serializable part of a session in Redis and
// keeps raw customer identifiers in a process-local sidecar. A session that
// is loaded on an instance without its sidecar entry comes back unverified,
// so the caller is asked to verify again; the attempt count is kept.
type SessionRepository struct {
	client  *redis.Client
	ttls    store.TTLs
	sidecar *cache.Cache
}

func NewSessionRepository(client *redis.Client, ttls store.TTLs) *SessionRepository {
	if ttls == nil {
		ttls = store.DefaultTTLs()
	}
	return &SessionRepository{
		client:  client,
		ttls:    ttls,
		sidecar: cache.New(30*time.Minute, 1*time.Minute),
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *SessionRepository) Load(ctx context.Context, id string, channel store.Channel) (store.ConversationSession, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.sidecar.Delete(id)
		return store.NewSession(id, channel), nil
	}
	if err != nil {
		return store.ConversationSession{}, fmt.Errorf("load session: %w", err)
	}

	var s store.ConversationSession
	if err := json.Unmarshal(data, &s); err != nil {
		return store.ConversationSession{}, fmt.Errorf("unmarshal session: %w", err)
	}

	var sec secrets
	if x, found := r.sidecar.Get(id); found {
		sec = x.(secrets)
	}
	return restore(s, sec), nil
}

// restore re-attaches the in-process identifiers to a decoded session.
func restore(s store.ConversationSession, sec secrets) store.ConversationSession {
	s.CustomerID = sec.customerID
	s.PendingCustomerID = sec.pendingCustomerID
	if s.Verified && s.CustomerID == "" {
		s.Verified = false
		s.CustomerRef = ""
	}
	return s
}

func (r *SessionRepository) Save(ctx context.Context, session store.ConversationSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := r.ttls.For(session.Channel)
	if err := r.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if session.CustomerID == "" && session.PendingCustomerID == "" {
		r.sidecar.Delete(session.ID)
		return nil
	}
	r.sidecar.Set(session.ID, secrets{
		customerID:        session.CustomerID,
		pendingCustomerID: session.PendingCustomerID,
	}, ttl)
	return nil
}

func (r *SessionRepository) Reset(ctx context.Context, id string) error {
	r.sidecar.Delete(id)
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

func (r *SessionRepository) scanKeys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

func (r *SessionRepository) List(ctx context.Context) ([]store.ConversationSession, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []store.ConversationSession{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	out := make([]store.ConversationSession, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			continue
		}
		var s store.ConversationSession
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		id := strings.TrimPrefix(keys[i], sessionKeyPrefix)
		var sec secrets
		if x, found := r.sidecar.Get(id); found {
			sec = x.(secrets)
		}
		out = append(out, restore(s, sec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func (r *SessionRepository) ResetAll(ctx context.Context) (int, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	r.sidecar.Flush()
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("reset sessions: %w", err)
	}
	return int(n), nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
