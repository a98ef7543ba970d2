package domain

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID        ChatID    `json:"id"`
	Title     string    `json:"title"`
	OwnerID   UserID    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChat is the creation request of a chat. The owner becomes its first member.
type NewChat struct {
	Title   string `validate:"required,max=100"`
	OwnerID UserID
}

func (c NewChat) Validate() error {
	if c.OwnerID == uuid.Nil {
		return errMissingField("owner_id")
	}
	return validate.Struct(c)
}

// ChatSummary is the chat-list projection of a chat.
type ChatSummary struct {
	ID              ChatID  `json:"id"`
	Title           string  `json:"title"`
	MembersCount    int     `json:"members_count"`
	LastMessageText *string `json:"last_message_text,omitempty"`
}
