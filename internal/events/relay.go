package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Relay subscribes to channel and forwards every decoded event into the hub,
// so events published by any server instance reach local clients.
// It blocks until ctx is cancelled.
func (h *Hub) Relay(ctx context.Context, rdb *redis.Client, channel string) error {
	pubsub := rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	h.log.Info().Str("channel", channel).Msg("relaying complaint events from redis")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.log.Error().Err(err).Msg("failed to decode event from redis")
				continue
			}
			if err := h.Publish(ctx, ev); err != nil {
				h.log.Error().Err(err).Str("complaint_id", ev.ComplaintID).Msg("failed to queue relayed event")
			}
		}
	}
}
