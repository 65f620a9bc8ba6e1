package rediscache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"
)

var fixedTime = time.Date(2024, 1, 2, 3, 5, 6, 0, time.UTC)

func TestSerializedSessionOmitsRawIdentifiers(t *testing.T) {
	s := store.NewSession("s1", store.ChannelWebChat)
	s.Verified = true
	s.CustomerID = "1234"
	s.PendingCustomerID = "4321"
	s.CustomerRef = "cust_fedcba"
	s.CreatedAt = fixedTime
	s.LastActivity = fixedTime

	data, err := json.Marshal(s)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "1234")
	assert.NotContains(t, string(data), "4321")
	assert.Contains(t, string(data), "cust_fedcba")
}

func TestRestoreWithoutSidecarDowngradesVerification(t *testing.T) {
	s := store.NewSession("s1", store.ChannelWebChat)
	s.Verified = true
	s.Attempts = 2
	s.CustomerRef = "cust_x"
	s.ActiveFlow = intent.Balance

	got := restore(s, secrets{})

	assert.False(t, got.Verified)
	assert.Empty(t, got.CustomerRef)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, intent.Balance, got.ActiveFlow)
}

func TestRestoreWithSidecar(t *testing.T) {
	s := store.NewSession("s1", store.ChannelWebChat)
	s.Verified = true

	got := restore(s, secrets{customerID: "1234", pendingCustomerID: ""})

	assert.True(t, got.Verified)
	assert.Equal(t, "1234", got.CustomerID)
}

func TestSessionRepositoryAgainstRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis test: REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	repo := NewSessionRepository(client, nil)
	require.NoError(t, repo.Ping(ctx))

	s := store.NewSession("it-session", store.ChannelSMS)
	s.Verified = true
	s.CustomerID = "1234"
	s.Pending = &store.PendingAction{Kind: store.ActionBlockCard, CardID: "CARD_001"}
	s.CreatedAt = fixedTime
	s.LastActivity = fixedTime
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Load(ctx, "it-session", store.ChannelSMS)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, "1234", got.CustomerID)
	assert.Equal(t, "CARD_001", got.Pending.CardID)

	raw, err := client.Get(ctx, sessionKey("it-session")).Result()
	require.NoError(t, err)
	assert.NotContains(t, raw, "1234")

	require.NoError(t, repo.Reset(ctx, "it-session"))
	fresh, err := repo.Load(ctx, "it-session", store.ChannelSMS)
	require.NoError(t, err)
	assert.False(t, fresh.Verified)
}
