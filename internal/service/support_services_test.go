package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaulta-banking-be/internal/dto"
	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/internal/pkg/mailer"
	"vaulta-banking-be/internal/repository/memory"
	"vaulta-banking-be/pkg/banking"
	"vaulta-banking-be/pkg/events"
	"vaulta-banking-be/pkg/store"
)

func TestSessionAdminService(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionRepository(store.DefaultTTLs())
	svc := NewSessionAdminService(sessions, store.NewKeyedMutex(), logger.NewNopLogger())

	older := store.NewSession("older", store.ChannelPhone)
	older.Turns = 2
	older.Verified = true
	older.CustomerID = "1234"
	older.CustomerRef = "ref-abc"
	older.LastActivity = time.Now().Add(-time.Minute)
	newer := store.NewSession("newer", store.ChannelSMS)
	newer.Turns = 1
	newer.Pending = &store.PendingAction{Kind: store.ActionBlockCard, CardID: "CARD_001"}
	require.NoError(t, sessions.Save(ctx, older))
	require.NoError(t, sessions.Save(ctx, newer))

	views, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "newer", views[0].SessionID)
	assert.Equal(t, string(store.ActionBlockCard), views[0].PendingAction)

	v, err := svc.GetSession(ctx, "older")
	require.NoError(t, err)
	assert.Equal(t, "ref-abc", v.CustomerRef)

	_, err = svc.GetSession(ctx, "never-seen")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.ResetSession(ctx, "older"))
	_, err = svc.GetSession(ctx, "older")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	res, err := svc.ResetAllSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cleared)
}

func TestSessionAdminLogs(t *testing.T) {
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "app.log.json"))
	svc := NewSessionAdminService(memory.NewSessionRepository(nil), store.NewKeyedMutex(), log)

	log.Info("TEST", "first", nil)
	log.Warn("TEST", "second", map[string]interface{}{"pin": "5678"})

	logs, err := svc.GetLogs(dto.LogListRequest{Limit: -1})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Message)

	detail, err := svc.GetLogById(logs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", detail.Details["pin"])

	_, err = svc.GetLogById("missing")
	assert.ErrorIs(t, err, logger.ErrLogNotFound)
}

func TestEscalationDesk(t *testing.T) {
	ctx := context.Background()
	desk := NewEscalationDesk(logger.NewNopLogger())

	require.NoError(t, desk.Publish(ctx, events.NewSessionEscalated("s1", "ref1", "phone", "lockout")))
	require.NoError(t, desk.Publish(ctx, events.NewFraudReported("s2", "", "sms", "FRAUD-20261015-0001", false)))
	require.NoError(t, desk.Handle(ctx, events.BaseEvent{Type: "something.else"}))

	recent := desk.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, events.TypeFraudReported, recent[0].Type)
	assert.Equal(t, "FRAUD-20261015-0001", recent[0].Reference)
	assert.Equal(t, "lockout", recent[1].Reason)
	assert.Equal(t, "ref1", recent[1].CustomerRef)
}

func TestEscalationDeskKeepsMostRecent(t *testing.T) {
	desk := NewEscalationDesk(logger.NewNopLogger())
	for i := 0; i < deskRecentSize+5; i++ {
		require.NoError(t, desk.Publish(context.Background(),
			events.NewSessionEscalated(fmt.Sprintf("s%d", i), "", "web_chat", "fraud")))
	}

	recent := desk.Recent()
	require.Len(t, recent, deskRecentSize)
	assert.Equal(t, fmt.Sprintf("s%d", deskRecentSize+4), recent[0].SessionID)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent map[string]mailer.Statement
}

func (r *recordingMailer) SendStatement(toEmail string, st mailer.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[toEmail] = st
	return nil
}

func (r *recordingMailer) get(email string) (mailer.Statement, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.sent[email]
	return st, ok
}

func TestStatementPipeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	fast, err := banking.NewDemoFastPath()
	require.NoError(t, err)
	mail := &recordingMailer{sent: map[string]mailer.Statement{}}
	bank := banking.NewService([]banking.Provider{fast},
		banking.WithStatementDispatcher(NewStatementDispatcher(NewPublisherService(pubSub, "statements"))))

	consumer := NewConsumerService(pubSub, "statements", bank, mail, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, bank.RequestStatement(ctx, "1234", "October 2026"))

	var st mailer.Statement
	require.Eventually(t, func() bool {
		var ok bool
		st, ok = mail.get("alex.morgan@example.com")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "Alex Morgan", st.CustomerName)
	assert.Equal(t, "October 2026", st.Period)
	assert.Equal(t, "$1,250.50", st.Balance)
	assert.Equal(t, "******7890", st.AccountNumber)
	assert.NotEmpty(t, st.Lines)
}

func TestStatementConsumerWithoutMailer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	fast, err := banking.NewDemoFastPath()
	require.NoError(t, err)
	bank := banking.NewService([]banking.Provider{fast})

	consumer := NewConsumerService(pubSub, "statements", bank, nil, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	dispatcher := NewStatementDispatcher(NewPublisherService(pubSub, "statements"))
	assert.NoError(t, dispatcher.Dispatch(ctx, banking.StatementRequest{CustomerID: "1234", Period: "last month"}))
}
