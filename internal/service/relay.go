package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventSource opens a subscription to the campaign events channel.
// Implemented by the Redis client.
type EventSource interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

// Relay forwards campaign events published by any runner to the local
// WebSocket hub.
type Relay struct {
	source EventSource
	hub    Broadcaster
}

// NewRelay creates a Relay.
func NewRelay(source EventSource, hub Broadcaster) *Relay {
	return &Relay{source: source, hub: hub}
}

// Start listens until ctx is cancelled or the subscription closes.
func (r *Relay) Start(ctx context.Context) {
	pubsub := r.source.Subscribe(ctx)
	defer pubsub.Close()

	log.Info().Msg("Event relay started")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Event relay stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.handleMessage(msg.Payload)
		}
	}
}

// handleMessage decodes one published event and hands it to the hub.
// Malformed payloads are logged and dropped.
func (r *Relay) handleMessage(payload string) bool {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Warn().Err(err).Msg("Dropping malformed campaign event")
		return false
	}
	if ev.CampaignID == "" || ev.Type == "" {
		log.Warn().Str("payload", payload).Msg("Dropping incomplete campaign event")
		return false
	}
	r.hub.BroadcastCampaignEvent(ev.CampaignID, ev.Type, ev.Data)
	return true
}
