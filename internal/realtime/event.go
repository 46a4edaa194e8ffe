package realtime

import "time"

type EventType string

const (
	EventConfidenceUpdated EventType = "confidence.updated"
)

type Message struct {
	Channel string    `json:"channel"`
	Event   EventType `json:"event"`
	Data    any       `json:"data"`
	SentAt  time.Time `json:"sentAt"`
}

// ContentChannel is the per-content channel name subscribers filter on.
func ContentChannel(contentID string) string { return "content:" + contentID }
