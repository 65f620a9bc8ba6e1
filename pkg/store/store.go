package store

import "context"

// SessionStore persists conversation state keyed by session ID. Load never
// reports absence: an unknown or expired ID yields a fresh session.
type SessionStore interface {
	Load(ctx context.Context, id string, channel Channel) (ConversationSession, error)
	Save(ctx context.Context, session ConversationSession) error
	Reset(ctx context.Context, id string) error
	List(ctx context.Context) ([]ConversationSession, error)
	ResetAll(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
