package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/calls"
)

func setupPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	rdb, err := Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	return NewPublisher(rdb, time.Hour, zap.NewNop()), mr
}

func TestPublisherStoresSnapshot(t *testing.T) {
	p, mr := setupPublisher(t)
	ctx := context.Background()

	snap := calls.Snapshot{ID: "s-1", UserID: "u-1", State: calls.StateActive, Version: 3}
	p.OnSessionChange(ctx, snap, calls.StateActive)

	got, err := p.Snapshot(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, calls.StateActive, got.State)
	assert.Equal(t, 3, got.Version)
	assert.Equal(t, time.Hour, mr.TTL("calls:s-1"))

	_, err = p.Snapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestPublisherPublishesTransitions(t *testing.T) {
	p, _ := setupPublisher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan LifecycleEvent, 1)
	subscribed := make(chan struct{})
	go func() {
		close(subscribed)
		p.Subscribe(ctx, func(e LifecycleEvent) { received <- e })
	}()
	<-subscribed

	// wait for the subscription to register before publishing
	require.Eventually(t, func() bool {
		n, err := p.rdb.PubSubNumSub(ctx, LifecycleChannel).Result()
		return err == nil && n[LifecycleChannel] > 0
	}, 2*time.Second, 10*time.Millisecond)

	p.OnSessionChange(ctx, calls.Snapshot{ID: "s-1", UserID: "u-1", State: calls.StateConnecting}, calls.StateInactive)

	select {
	case e := <-received:
		assert.Equal(t, p.InstanceID(), e.InstanceID)
		assert.Equal(t, "s-1", e.SessionID)
		assert.Equal(t, calls.StateInactive, e.From)
		assert.Equal(t, calls.StateConnecting, e.To)
	case <-time.After(2 * time.Second):
		t.Fatal("lifecycle event was not delivered")
	}
}

func TestConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr)
	assert.Error(t, err)
}

func TestPublisherPing(t *testing.T) {
	p, mr := setupPublisher(t)
	assert.NoError(t, p.Ping(context.Background()))

	mr.Close()
	assert.Error(t, p.Ping(context.Background()))
}
