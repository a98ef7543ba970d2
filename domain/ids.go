package domain

import "github.com/google/uuid"

// UserID identifies a user across the system.
type UserID = uuid.UUID

// ChatID identifies a chat across the system.
type ChatID = uuid.UUID

// MessageID is allocated by the repository and grows with every stored message.
// It doubles as the pagination cursor of a chat timeline.
type MessageID int64
