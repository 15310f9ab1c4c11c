package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-api/pkg/config"
)

func TestEscalationClaimsOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCommands()
	client := &Client{cmd: mock}

	first, err := client.ClaimEscalation(ctx, "alert-1", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatal("expected first claim to succeed")
	}
	second, err := client.ClaimEscalation(ctx, "alert-1", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Fatal("expected second claim to be rejected")
	}
	if _, ok := mock.data["mt:escalation:alert-1"]; !ok {
		t.Fatalf("expected namespaced key, got %v", mock.data)
	}

	if err := client.ReleaseEscalation(ctx, "alert-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	again, _ := client.ClaimEscalation(ctx, "alert-1", time.Hour)
	if !again {
		t.Fatal("expected claim after release")
	}
}

func TestClaimExpiresWithTTL(t *testing.T) {
	srv := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	claimed, err := client.ClaimEscalation(ctx, "alert-2", time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	srv.FastForward(2 * time.Minute)
	claimed, err = client.ClaimEscalation(ctx, "alert-2", time.Minute)
	require.NoError(t, err)
	require.True(t, claimed, "expired claim should be available again")
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.EscalationKey("abc"); got != "mt:escalation:abc" {
		t.Fatalf("unexpected escalation key %s", got)
	}
	if got := client.ChannelName(" events "); got != "mt:realtime:events" {
		t.Fatalf("unexpected channel %s", got)
	}
	if got := key(); got != "mt" {
		t.Fatalf("unexpected bare key %s", got)
	}
}

func TestClientOptionsFillsFromConfig(t *testing.T) {
	opts, err := clientOptions(config.RedisConfig{URL: "redis://:secret@cache:6380/2", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "cache:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, "secret", opts.Password)
	require.Equal(t, 7, opts.PoolSize)
	require.Equal(t, time.Second, opts.DialTimeout)

	opts, err = clientOptions(config.RedisConfig{Address: "localhost:6379", DB: 3})
	require.NoError(t, err)
	require.Equal(t, 3, opts.DB)

	_, err = clientOptions(config.RedisConfig{URL: "://bad"})
	require.Error(t, err)
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail without a store")
	}
	if client.Subscribe(context.Background(), "x") != nil {
		t.Fatal("expected nil subscription without raw client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close should be a no-op: %v", err)
	}
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	channel := client.ChannelName("events")
	sub := client.Subscribe(ctx, channel)
	require.NotNil(t, sub)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, channel, []byte(`{"city":"Pune"}`)))

	select {
	case msg := <-sub.Channel():
		require.Equal(t, `{"city":"Pune"}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNewFromConfig(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{Address: srv.Addr(), PoolSize: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()))

	_, err = New(context.Background(), config.RedisConfig{}, nil)
	require.Error(t, err)
}

type mockCommands struct {
	data      map[string]string
	published map[string][]any
}

func newMockCommands() *mockCommands {
	return &mockCommands{
		data:      make(map[string]string),
		published: make(map[string][]any),
	}
}

func (m *mockCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCommands) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCommands) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCommands) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	m.published[channel] = append(m.published[channel], message)
	return redis.NewIntResult(1, nil)
}
