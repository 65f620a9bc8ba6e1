package events

import "time"

const (
	TypeSessionEscalated = "session.escalated"
	TypeFraudReported    = "fraud.reported"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType is the subject suffix, e.g. "session.escalated".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String reads a string field from the payload, or "" when absent.
func (e BaseEvent) String(key string) string {
	v, _ := e.Data[key].(string)
	return v
}

// Escalation payloads carry only the session ID, the derived customer
// reference and service-generated values. Never the raw customer ID.

func NewSessionEscalated(sessionID, customerRef, channel, reason string) BaseEvent {
	return BaseEvent{
		Type: TypeSessionEscalated,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"customer_ref": customerRef,
			"channel":      channel,
			"reason":       reason,
		},
		OccurredAt: time.Now().UTC(),
	}
}

func NewFraudReported(sessionID, customerRef, channel, reference string, verified bool) BaseEvent {
	return BaseEvent{
		Type: TypeFraudReported,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"customer_ref": customerRef,
			"channel":      channel,
			"reference":    reference,
			"verified":     verified,
		},
		OccurredAt: time.Now().UTC(),
	}
}
