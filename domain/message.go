// Package domain contains core concepts of the chat system.
// This file defines Message records and related rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an entry of a chat timeline.
// Notifications share the timeline with IsNotification set and no sender.
type Message struct {
	ID             MessageID  `json:"id"`
	ChatID         ChatID     `json:"chat_id"`
	SenderID       UserID     `json:"sender_id"`
	Text           string     `json:"text"`
	IsNotification bool       `json:"is_notification"`
	SentAt         time.Time  `json:"sent_at"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
}

type NewMessage struct {
	ChatID   ChatID
	SenderID UserID
	Text     string `validate:"required,max=4000"`
}

func (m NewMessage) Validate() error {
	if m.ChatID == uuid.Nil {
		return errMissingField("chat_id")
	}
	if m.SenderID == uuid.Nil {
		return errMissingField("sender_id")
	}
	return validate.Struct(m)
}

// Notification is a system message recorded in a chat timeline.
type Notification struct {
	ID     MessageID `json:"id"`
	ChatID ChatID    `json:"chat_id"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// ValidateText applies the NewMessage text rules to an edited text.
func ValidateText(text string) error {
	return validate.Var(text, "required,max=4000")
}
