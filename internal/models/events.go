package models

// Event is the envelope published on the moderation events channel and
// forwarded to connected reviewer sockets.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventItemPending = "item.pending"
	EventItemDecided = "item.decided"
	EventPublished   = "content.published"
)

// Publication is the payload of a content.published event: the formatted
// channel post handed to the transport collaborator for delivery.
type Publication struct {
	ChannelID  string      `json:"channel_id"`
	Kind       ContentKind `json:"kind"`
	PayloadRef string      `json:"payload_ref,omitempty"`
	Body       string      `json:"body"`
}
