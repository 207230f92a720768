package models

import "time"

// Message between a student and a vacancy owner. Names are snapshots taken
// at send time.
type Message struct {
	ID            int64      `json:"id" db:"id"`
	Sender        AccountRef `json:"sender"`
	SenderName    string     `json:"senderName" db:"sender_name"`
	Recipient     AccountRef `json:"recipient"`
	RecipientName string     `json:"recipientName" db:"recipient_name"`
	Subject       string     `json:"subject" db:"subject"`
	Body          string     `json:"body" db:"body"`
	ApplicationID *int64     `json:"applicationId,omitempty" db:"application_id"`
	Leido         bool       `json:"leido" db:"leido"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	ReadAt        *time.Time `json:"readAt,omitempty" db:"read_at"`
}

// IsParty reports whether ref is the sender or the recipient.
func (m *Message) IsParty(ref AccountRef) bool {
	return m.Sender.Same(ref) || m.Recipient.Same(ref)
}
