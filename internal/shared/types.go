package shared

// Asynq task types
const (
	TypeSendMagicLinkEmail = "email:magic_link"
	TypeDrainInbox         = "confession:drain_inbox"
)

// Asynq queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// MagicLinkEmailPayload là payload của task gửi one-time link
type MagicLinkEmailPayload struct {
	Email     string `json:"email"`
	Link      string `json:"link"`
	LinkType  string `json:"link_type"`
	ExpiresIn string `json:"expires_in"`
}

// DrainInboxPayload là payload của task retry mark-all-read
type DrainInboxPayload struct {
	ProfileID string `json:"profile_id"`
}
