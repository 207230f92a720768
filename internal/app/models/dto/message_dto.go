package dto

import "time"

// SendMessageRequest represents a message send. Either ApplicationID or the
// recipient pair must be given.
type SendMessageRequest struct {
	ApplicationID *int64  `json:"applicationId,omitempty" validate:"omitempty,gt=0" example:"40"`
	RecipientID   *int64  `json:"recipientId,omitempty" validate:"omitempty,gt=0" example:"3"`
	RecipientRole *string `json:"recipientRole,omitempty" validate:"required_with=RecipientID,omitempty,rolekind" example:"PROFESSOR"`
	Subject       string  `json:"subject" validate:"required,max=200" example:"Interview schedule"`
	Body          string  `json:"body" validate:"required,max=5000" example:"Would Tuesday work?"`
}

// InboxFilterRequest toggles unread-only inbox listing
type InboxFilterRequest struct {
	UnreadOnly bool `form:"unread"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID            int64      `json:"id" example:"90"`
	SenderID      int64      `json:"senderId" example:"7"`
	SenderKind    string     `json:"senderKind" example:"STUDENT"`
	SenderName    string     `json:"senderName" example:"Ana Ruiz"`
	RecipientID   int64      `json:"recipientId" example:"3"`
	RecipientKind string     `json:"recipientKind" example:"PROFESSOR"`
	RecipientName string     `json:"recipientName" example:"Luis Pardo"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	ApplicationID *int64     `json:"applicationId,omitempty" example:"40"`
	Leido         bool       `json:"leido" example:"false"`
	CreatedAt     time.Time  `json:"createdAt"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
}

// UnreadCountResponse reports unread messages for the caller
type UnreadCountResponse struct {
	Unread int64 `json:"unread" example:"2"`
}
