package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/redis"
)

const defaultRelayChannel = "events"

type relayEnvelope struct {
	City  string          `json:"city"`
	Event string          `json:"event"`
	Frame json.RawMessage `json:"frame"`
}

// Relay publishes events through Redis so every instance's hub delivers them
// to its own connections.
type Relay struct {
	hub     *Hub
	pubsub  redis.PubSub
	channel string
	logg    *logger.Logger
}

func NewRelay(hub *Hub, pubsub redis.PubSub, channel string, logg *logger.Logger) (*Relay, error) {
	if hub == nil {
		return nil, fmt.Errorf("realtime relay: hub required")
	}
	if pubsub == nil {
		return nil, fmt.Errorf("realtime relay: pubsub required")
	}
	if channel == "" {
		channel = defaultRelayChannel
	}
	return &Relay{
		hub:     hub,
		pubsub:  pubsub,
		channel: pubsub.ChannelName(channel),
		logg:    logg,
	}, nil
}

// Emit publishes the event. When publishing fails the event is still
// delivered to local connections and the error is returned.
func (r *Relay) Emit(ctx context.Context, city, event string, payload any) error {
	frame, err := encode(event, payload)
	if err != nil {
		return err
	}
	city = normalizeCity(city)
	body, err := json.Marshal(relayEnvelope{City: city, Event: event, Frame: frame})
	if err != nil {
		return err
	}
	if err := r.pubsub.Publish(ctx, r.channel, body); err != nil {
		r.hub.EmitRaw(ctx, city, event, frame)
		return fmt.Errorf("publish realtime event: %w", err)
	}
	return nil
}

// Run consumes the channel until ctx is cancelled. ready is closed once the
// subscription is confirmed.
func (r *Relay) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := r.pubsub.Subscribe(ctx, r.channel)
	if sub == nil {
		return fmt.Errorf("realtime relay: subscription unavailable")
	}
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("realtime relay: subscribe: %w", err)
	}
	if ready != nil {
		close(ready)
	}
	if r.logg != nil {
		r.logg.Info(ctx, "realtime.relay_subscribed")
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				if r.logg != nil {
					r.logg.Warn(ctx, "realtime.relay_bad_payload")
				}
				continue
			}
			r.hub.EmitRaw(ctx, env.City, env.Event, env.Frame)
		}
	}
}
