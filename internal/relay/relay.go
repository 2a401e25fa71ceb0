// Package relay fans message events out across API instances through Redis
// pub/sub. A send handled on one instance reaches a recipient whose live
// channel is open on another; with a single instance the relay is simply not
// configured and fan-out stays process-local.
package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chatterbox-dev/chatterbox/internal/config"
	"github.com/chatterbox-dev/chatterbox/internal/domain"
	"github.com/chatterbox-dev/chatterbox/internal/logger"
	"github.com/chatterbox-dev/chatterbox/internal/sse"
)

const channel = "chatterbox:messages"

type event struct {
	Instance string          `json:"instance"`
	ToUserId domain.UserId   `json:"to_user_id"`
	Payload  json.RawMessage `json:"payload"`
}

type Relay struct {
	client     *redis.Client
	registry   *sse.Registry
	instanceID string
}

func New(cfg *config.Redis, registry *sse.Registry) (*Relay, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Relay{
		client:     client,
		registry:   registry,
		instanceID: uuid.NewString(),
	}, nil
}

// Publish announces a delivered message to the other instances. Best-effort:
// the caller logs failures and never propagates them to the sender.
func (r *Relay) Publish(ctx context.Context, toUserId domain.UserId, payload []byte) error {
	data, err := json.Marshal(event{Instance: r.instanceID, ToUserId: toUserId, Payload: payload})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// Start consumes relayed events until ctx is cancelled, dispatching each into
// the local registry.
func (r *Relay) Start(ctx context.Context) {
	pubsub := r.client.Subscribe(ctx, channel)

	go func() {
		defer pubsub.Close()
		logger.Log.Info("message relay started", "instance", r.instanceID)

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				logger.Log.Info("message relay shutting down")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.dispatch([]byte(msg.Payload))
			}
		}
	}()
}

// dispatch decodes one relayed event and forwards it to the local registry.
// Events published by this instance are skipped; the local push already
// happened on the sending path.
func (r *Relay) dispatch(raw []byte) {
	var e event
	if err := json.Unmarshal(raw, &e); err != nil {
		logger.Log.Error("relay received malformed event", "error", err)
		return
	}
	if e.Instance == r.instanceID {
		return
	}
	r.registry.Push(e.ToUserId, e.Payload)
}

func (r *Relay) Close() error {
	return r.client.Close()
}
