package store

import (
	"time"

	"vaulta-banking-be/pkg/intent"
)

// ConversationSession is the per-conversation state carried between turns.
// The raw customer ID lives only in process memory; every serialized form
// carries CustomerRef instead.
type ConversationSession struct {
	ID          string  `json:"session_id"`
	Channel     Channel `json:"channel"`
	Verified    bool    `json:"verified"`
	CustomerID  string  `json:"-"`
	CustomerRef string  `json:"customer_ref,omitempty"`
	Attempts    int     `json:"verification_attempts"`
	Locked      bool    `json:"locked"`

	ActiveFlow intent.Intent  `json:"active_flow,omitempty"`
	Pending    *PendingAction `json:"pending_confirmation,omitempty"`
	LastAction *PendingAction `json:"last_action,omitempty"`
	Escalate   bool           `json:"escalate"`

	// Held between turns when the caller gave an ID but no PIN yet.
	PendingCustomerID string        `json:"-"`
	OriginalIntent    intent.Intent `json:"original_intent,omitempty"`
	FlowCursor        int           `json:"flow_cursor,omitempty"`

	Turns        int       `json:"turns"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// ActionKind names the operation a pending confirmation will run.
type ActionKind string

const (
	ActionBlockCard ActionKind = "BLOCK_CARD"
)

// PendingAction is an operation waiting for a yes/no reply. A nil
// *PendingAction on the session means nothing is pending.
type PendingAction struct {
	Kind      ActionKind `json:"kind"`
	CardID    string     `json:"card_id,omitempty"`
	CardLast4 string     `json:"card_last4,omitempty"`
	CardType  string     `json:"card_type,omitempty"`
}

// NewSession returns the default state for an unseen session ID.
func NewSession(id string, channel Channel) ConversationSession {
	now := time.Now().UTC()
	return ConversationSession{
		ID:           id,
		Channel:      channel,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Clone returns a copy that shares no pointers with s.
func (s ConversationSession) Clone() ConversationSession {
	out := s
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	if s.LastAction != nil {
		a := *s.LastAction
		out.LastAction = &a
	}
	return out
}

// ClearFlow drops any in-progress dialogue without touching identity state.
func (s *ConversationSession) ClearFlow() {
	s.ActiveFlow = ""
	s.Pending = nil
	s.LastAction = nil
	s.FlowCursor = 0
}

// HasCustomer reports whether the raw customer ID is still held in memory.
func (s ConversationSession) HasCustomer() bool {
	return s.Verified && s.CustomerID != ""
}
