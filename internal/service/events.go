package service

import "encoding/json"

// Campaign event types pushed to spectators.
const (
	EventTurnEnded     = "turn_ended"
	EventCampaignEnded = "campaign_ended"
)

// Event is the payload carried on the Redis events channel and relayed to
// WebSocket subscribers.
type Event struct {
	Type       string          `json:"type"`
	CampaignID string          `json:"campaign_id"`
	Data       json.RawMessage `json:"data"`
}

// Broadcaster sends real-time events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastCampaignEvent(campaignID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastCampaignEvent(string, string, any) {}
