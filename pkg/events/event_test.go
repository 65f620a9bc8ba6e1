package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscalationEvents(t *testing.T) {
	esc := NewSessionEscalated("s-1", "c_ab12", "phone", "lockout")
	assert.Equal(t, TypeSessionEscalated, esc.EventType())
	assert.Equal(t, "lockout", esc.String("reason"))
	assert.False(t, esc.Timestamp().IsZero())

	fraud := NewFraudReported("s-2", "", "sms", "FRAUD-20260207-0001", false)
	assert.Equal(t, TypeFraudReported, fraud.EventType())
	assert.Equal(t, "FRAUD-20260207-0001", fraud.String("reference"))
	assert.Equal(t, false, fraud.Payload()["verified"])
	assert.Equal(t, "", fraud.String("missing"))
}
