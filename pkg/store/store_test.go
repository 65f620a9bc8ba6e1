package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaulta-banking-be/pkg/intent"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("abc", ChannelSMS)

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, ChannelSMS, s.Channel)
	assert.False(t, s.Verified)
	assert.Zero(t, s.Attempts)
	assert.Empty(t, s.ActiveFlow)
	assert.Nil(t, s.Pending)
	assert.False(t, s.Escalate)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestCloneDetachesPending(t *testing.T) {
	s := NewSession("abc", ChannelWebChat)
	s.Pending = &PendingAction{Kind: ActionBlockCard, CardID: "CARD_001"}

	c := s.Clone()
	c.Pending.CardID = "CARD_999"

	assert.Equal(t, "CARD_001", s.Pending.CardID)
}

func TestClearFlowKeepsIdentity(t *testing.T) {
	s := NewSession("abc", ChannelWebChat)
	s.Verified = true
	s.CustomerID = "1234"
	s.ActiveFlow = intent.CardBlock
	s.Pending = &PendingAction{Kind: ActionBlockCard}
	s.FlowCursor = 3

	s.ClearFlow()

	assert.True(t, s.HasCustomer())
	assert.Empty(t, s.ActiveFlow)
	assert.Nil(t, s.Pending)
	assert.Zero(t, s.FlowCursor)
}

func TestChannelTTLs(t *testing.T) {
	ttls := DefaultTTLs()

	tests := []struct {
		channel Channel
		want    time.Duration
	}{
		{ChannelPhone, 300 * time.Second},
		{ChannelWebVoice, 300 * time.Second},
		{ChannelWebChat, 30 * time.Minute},
		{ChannelSMS, 24 * time.Hour},
		{Channel("fax"), 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			assert.Equal(t, tt.want, ttls.For(tt.channel))
		})
	}
}

func TestParseChannel(t *testing.T) {
	assert.Equal(t, ChannelPhone, ParseChannel("PHONE"))
	assert.Equal(t, ChannelWebVoice, ParseChannel(" web_voice "))
	assert.Equal(t, ChannelWebChat, ParseChannel(""))
	assert.True(t, ChannelPhone.Voice())
	assert.False(t, ChannelSMS.Voice())
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		guard   sync.Mutex
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := km.Lock(ctx, "session-1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			guard.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			guard.Unlock()

			time.Sleep(time.Millisecond)

			guard.Lock()
			inside--
			guard.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, km.Len())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	ctx := context.Background()

	unlockA, err := km.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := km.Lock(ctx, "b")
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key was blocked")
	}
}

func TestKeyedMutexHonoursContext(t *testing.T) {
	km := NewKeyedMutex()

	unlock, err := km.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = km.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Zero(t, km.Len())
}
