// Package events mirrors call session changes into Redis so other
// instances and dashboards can follow live interviews.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/calls"
)

const (
	LifecycleChannel = "interview:call-lifecycle"
	snapshotPrefix   = "calls:"
)

var ErrSnapshotNotFound = errors.New("call snapshot not found")

type LifecycleEvent struct {
	InstanceID string         `json:"instanceId"`
	SessionID  string         `json:"sessionId"`
	UserID     string         `json:"userId"`
	From       calls.State    `json:"from"`
	To         calls.State    `json:"to"`
	Snapshot   calls.Snapshot `json:"snapshot"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Publisher is a calls.Observer. Every change refreshes the session's
// snapshot key; state changes are also published on LifecycleChannel.
type Publisher struct {
	rdb        *redis.Client
	instanceID string
	ttl        time.Duration
	logger     *zap.Logger
}

func NewPublisher(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Publisher {
	return &Publisher{
		rdb:        rdb,
		instanceID: uuid.New().String(),
		ttl:        ttl,
		logger:     logger,
	}
}

// Connect opens a client for addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (p *Publisher) InstanceID() string {
	return p.instanceID
}

func (p *Publisher) OnSessionChange(ctx context.Context, snap calls.Snapshot, from calls.State) {
	data, err := json.Marshal(snap)
	if err != nil {
		p.logger.Error("Failed to marshal call snapshot", zap.String("session_id", snap.ID), zap.Error(err))
		return
	}
	if err := p.rdb.Set(ctx, snapshotPrefix+snap.ID, data, p.ttl).Err(); err != nil {
		p.logger.Warn("Failed to store call snapshot", zap.String("session_id", snap.ID), zap.Error(err))
	}

	if snap.State == from {
		return
	}
	event := LifecycleEvent{
		InstanceID: p.instanceID,
		SessionID:  snap.ID,
		UserID:     snap.UserID,
		From:       from,
		To:         snap.State,
		Snapshot:   snap,
		Timestamp:  time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal lifecycle event", zap.String("session_id", snap.ID), zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, LifecycleChannel, payload).Err(); err != nil {
		p.logger.Warn("Failed to publish lifecycle event", zap.String("session_id", snap.ID), zap.Error(err))
	}
}

// Snapshot returns the last stored snapshot for a session.
func (p *Publisher) Snapshot(ctx context.Context, sessionID string) (*calls.Snapshot, error) {
	data, err := p.rdb.Get(ctx, snapshotPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	var snap calls.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Subscribe delivers lifecycle events published by any instance until ctx is done.
func (p *Publisher) Subscribe(ctx context.Context, fn func(LifecycleEvent)) error {
	sub := p.rdb.Subscribe(ctx, LifecycleChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event LifecycleEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				p.logger.Warn("Dropped malformed lifecycle event", zap.Error(err))
				continue
			}
			fn(event)
		}
	}
}

func (p *Publisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
