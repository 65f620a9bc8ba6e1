package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/pkg/events"
	natsbus "vaulta-banking-be/pkg/nats"
)

const (
	moduleDesk     = "DESK"
	deskRecentSize = 100
)

// EventSubscriber is the consuming side of the event bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler natsbus.EventHandler) error
}

// DeskEntry is one handoff waiting for a human.
type DeskEntry struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"session_id"`
	CustomerRef string    `json:"customer_ref,omitempty"`
	Channel     string    `json:"channel,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// EscalationDesk records escalations and fraud reports for the human team.
// It writes to its own log file and keeps the most recent entries in
// memory. It also implements EventPublisher so a deployment without NATS
// can deliver events to it directly.
type EscalationDesk struct {
	logger logger.ILogger

	mu     sync.Mutex
	recent []DeskEntry
}

func NewEscalationDesk(deskLogger logger.ILogger) *EscalationDesk {
	return &EscalationDesk{logger: deskLogger}
}

// Start binds the desk to the bus with durable consumers, so events
// published while the desk was down are still delivered.
func (d *EscalationDesk) Start(ctx context.Context, sub EventSubscriber) error {
	if err := sub.Subscribe(ctx, natsbus.Subject(events.TypeSessionEscalated), "desk-escalations", d.Handle); err != nil {
		return fmt.Errorf("subscribe escalations: %w", err)
	}
	if err := sub.Subscribe(ctx, natsbus.Subject(events.TypeFraudReported), "desk-fraud", d.Handle); err != nil {
		return fmt.Errorf("subscribe fraud reports: %w", err)
	}
	return nil
}

func (d *EscalationDesk) Publish(ctx context.Context, event events.Event) error {
	return d.Handle(ctx, events.BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
}

func (d *EscalationDesk) Handle(ctx context.Context, ev events.BaseEvent) error {
	entry := DeskEntry{
		Type:        ev.EventType(),
		SessionID:   ev.String("session_id"),
		CustomerRef: ev.String("customer_ref"),
		Channel:     ev.String("channel"),
		Reason:      ev.String("reason"),
		Reference:   ev.String("reference"),
		ReceivedAt:  time.Now().UTC(),
	}

	details := map[string]interface{}{
		"session_id":   entry.SessionID,
		"customer_ref": entry.CustomerRef,
		"channel":      entry.Channel,
		"occurred_at":  ev.Timestamp().Format(time.RFC3339),
	}
	switch entry.Type {
	case events.TypeFraudReported:
		details["reference"] = entry.Reference
		details["verified"] = ev.Payload()["verified"]
		d.logger.Warn(moduleDesk, "Fraud report needs specialist follow-up", details)
	case events.TypeSessionEscalated:
		details["reason"] = entry.Reason
		d.logger.Warn(moduleDesk, "Session escalated to a human", details)
	default:
		d.logger.Info(moduleDesk, "Ignoring unexpected event", map[string]interface{}{"event": entry.Type})
		return nil
	}

	d.mu.Lock()
	d.recent = append(d.recent, entry)
	if len(d.recent) > deskRecentSize {
		d.recent = d.recent[len(d.recent)-deskRecentSize:]
	}
	d.mu.Unlock()
	return nil
}

// Recent returns the latest desk entries, newest first.
func (d *EscalationDesk) Recent() []DeskEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeskEntry, len(d.recent))
	for i, e := range d.recent {
		out[len(d.recent)-1-i] = e
	}
	return out
}
