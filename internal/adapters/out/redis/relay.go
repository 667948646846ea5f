// Package redis relays push events between service instances over a Redis
// pub/sub channel so that every instance can reach its own websocket
// subscribers.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "dispatch:push"

type envelope struct {
	Role    kernel.Role  `json:"role"`
	ActorID *kernel.UUID `json:"actorId,omitempty"`
	Event   ports.Event  `json:"event"`
}

// Relay publishes every push to the channel; Run delivers what arrives on the
// channel, including this instance's own pushes, to the local push channel.
type Relay struct {
	client  *redis.Client
	channel string
	local   ports.PushChannel
	logger  *slog.Logger
}

func NewRelay(client *redis.Client, channel string, local ports.PushChannel, logger *slog.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{
		client:  client,
		channel: channel,
		local:   local,
		logger:  logger.With("component", "redis_relay"),
	}
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (r *Relay) Push(ctx context.Context, audience ports.Audience, event ports.Event) error {
	env := envelope{Role: audience.Role, Event: event}
	if !audience.IsRole() {
		id := audience.ActorID
		env.ActorID = &id
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err = r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return errs.NewUpstreamError("redis", err)
	}
	return nil
}

// Run subscribes and blocks until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errs.NewUpstreamError("redis", err)
	}
	r.logger.InfoContext(ctx, "relay subscribed", "channel", r.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.deliver(ctx, msg.Payload)
		}
	}
}

func (r *Relay) deliver(ctx context.Context, payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.WarnContext(ctx, "malformed relay message", "error", err)
		return
	}

	audience := ports.RoleAudience(env.Role)
	if env.ActorID != nil {
		audience.ActorID = *env.ActorID
	}
	if err := r.local.Push(ctx, audience, env.Event); err != nil {
		r.logger.WarnContext(ctx, "local push failed", "audience", audience.String(), "error", err)
	}
}
