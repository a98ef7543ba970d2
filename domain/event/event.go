// Package event defines the closed set of events delivered through user mailboxes.
package event

import (
	"chat-relay/domain"
	"time"

	"github.com/oklog/ulid/v2"
)

type Kind string

const (
	KindChatMessage               Kind = "chat_message"
	KindChatMessageEdited         Kind = "chat_message_edited"
	KindUserAddedToChat           Kind = "user_added_to_chat_notification"
	KindChatListUpdate            Kind = "chat_list_update"
	KindFirstCircleUserListUpdate Kind = "first_circle_user_list_update"
)

// Event is implemented only by the types of this package.
// Consumers dispatch with a type switch over the five variants.
type Event interface {
	Kind() Kind
	EventID() string
	sealed()
}

// ChatMessageEvent carries a message freshly posted to a chat.
type ChatMessageEvent struct {
	ID        string           `json:"id"`
	MessageID domain.MessageID `json:"message_id"`
	ChatID    domain.ChatID    `json:"chat_id"`
	SenderID  domain.UserID    `json:"sender_id"`
	Text      string           `json:"text"`
	SentAt    time.Time        `json:"sent_at"`
}

func NewChatMessageEvent(msg domain.Message) ChatMessageEvent {
	return ChatMessageEvent{
		ID:        newID(),
		MessageID: msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		SentAt:    msg.SentAt,
	}
}

func (ChatMessageEvent) Kind() Kind        { return KindChatMessage }
func (e ChatMessageEvent) EventID() string { return e.ID }
func (ChatMessageEvent) sealed()           {}

// ChatMessageEdited carries the new text of an existing message.
type ChatMessageEdited struct {
	ID        string           `json:"id"`
	MessageID domain.MessageID `json:"message_id"`
	ChatID    domain.ChatID    `json:"chat_id"`
	SenderID  domain.UserID    `json:"sender_id"`
	Text      string           `json:"text"`
	EditedAt  time.Time        `json:"edited_at"`
}

func NewChatMessageEdited(msg domain.Message) ChatMessageEdited {
	var editedAt time.Time
	if msg.EditedAt != nil {
		editedAt = *msg.EditedAt
	}
	return ChatMessageEdited{
		ID:        newID(),
		MessageID: msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		EditedAt:  editedAt,
	}
}

func (ChatMessageEdited) Kind() Kind        { return KindChatMessageEdited }
func (e ChatMessageEdited) EventID() string { return e.ID }
func (ChatMessageEdited) sealed()           {}

// UserAddedToChatNotification tells chat members that someone joined.
type UserAddedToChatNotification struct {
	ID             string           `json:"id"`
	NotificationID domain.MessageID `json:"notification_id"`
	ChatID         domain.ChatID    `json:"chat_id"`
	UserID         domain.UserID    `json:"user_id"`
	AddedBy        domain.UserID    `json:"added_by"`
	Text           string           `json:"text"`
	At             time.Time        `json:"at"`
}

func NewUserAddedToChatNotification(n domain.Notification, userID, addedBy domain.UserID) UserAddedToChatNotification {
	return UserAddedToChatNotification{
		ID:             newID(),
		NotificationID: n.ID,
		ChatID:         n.ChatID,
		UserID:         userID,
		AddedBy:        addedBy,
		Text:           n.Text,
		At:             n.At,
	}
}

func (UserAddedToChatNotification) Kind() Kind        { return KindUserAddedToChat }
func (e UserAddedToChatNotification) EventID() string { return e.ID }
func (UserAddedToChatNotification) sealed()           {}

type ChatListAction string

const ChatListActionAdd ChatListAction = "add"

// ChatListUpdate refreshes one entry of the receiver's chat list.
type ChatListUpdate struct {
	ID     string             `json:"id"`
	Action ChatListAction     `json:"action"`
	Chat   domain.ChatSummary `json:"chat"`
}

func NewChatListUpdate(action ChatListAction, chat domain.ChatSummary) ChatListUpdate {
	return ChatListUpdate{ID: newID(), Action: action, Chat: chat}
}

func (ChatListUpdate) Kind() Kind        { return KindChatListUpdate }
func (e ChatListUpdate) EventID() string { return e.ID }
func (ChatListUpdate) sealed()           {}

// FirstCircleUserListUpdate reports users newly sharing a chat with the receiver.
// IsFull marks a complete snapshot rather than a delta.
type FirstCircleUserListUpdate struct {
	ID     string               `json:"id"`
	IsFull bool                 `json:"is_full"`
	Users  []domain.UserSummary `json:"users"`
}

func NewFirstCircleUserListUpdate(isFull bool, users []domain.UserSummary) FirstCircleUserListUpdate {
	return FirstCircleUserListUpdate{ID: newID(), IsFull: isFull, Users: users}
}

func (FirstCircleUserListUpdate) Kind() Kind        { return KindFirstCircleUserListUpdate }
func (e FirstCircleUserListUpdate) EventID() string { return e.ID }
func (FirstCircleUserListUpdate) sealed()           {}

// ulid.Make is monotonic within a process, so ids also sort by creation.
func newID() string {
	return ulid.Make().String()
}
