package types

// Notification is a per-user event record. The unread count is derived
// server-side; clients never store it independently.
type Notification struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Type           string `json:"type"`
	RelatedItemID  string `json:"related_item_id"`
	ActionURL      string `json:"action_url"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

// ChatMessage is one entry in an item's owner/claimant conversation,
// ordered by Timestamp ascending.
type ChatMessage struct {
	MessageID   string `json:"message_id"`
	ItemID      string `json:"item_id,omitempty"`
	SenderID    string `json:"sender_id"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	CreatedAt   string `json:"created_at"`
}
