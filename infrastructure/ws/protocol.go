package ws

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"encoding/json"
)

const Subprotocol = "chat-relay.v1"

// Frame types. Every request type is answered by "<type>.ok" or by TypeError with the same id.
const (
	TypeEvents         = "events"
	TypeError          = "error"
	TypeEventsAck      = "events.ack"
	TypeMessageSend    = "message.send"
	TypeMessageEdit    = "message.edit"
	TypeChatCreate     = "chat.create"
	TypeChatAddUser    = "chat.add_user"
	TypeChatsList      = "chats.list"
	TypeMessagesList   = "messages.list"
	TypeUsersList      = "users.list"
	TypeFirstCircleGet = "first_circle.get"

	okSuffix = ".ok"
)

// Frame is the envelope of everything crossing the socket, in both directions.
type Frame struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type ErrorData struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

type EventsData struct {
	Events []event.Envelope `json:"events"`
}

type AckData struct {
	Acknowledged int `json:"acknowledged"`
}

type MessageSendRequest struct {
	ChatID domain.ChatID `json:"chat_id"`
	Text   string        `json:"text"`
}

type MessageEditRequest struct {
	MessageID domain.MessageID `json:"message_id"`
	Text      string           `json:"text"`
}

type ChatCreateRequest struct {
	Title string `json:"title"`
}

type ChatAddUserRequest struct {
	ChatID domain.ChatID `json:"chat_id"`
	UserID domain.UserID `json:"user_id"`
}

type MessagesListRequest struct {
	ChatID    domain.ChatID     `json:"chat_id"`
	StartID   *domain.MessageID `json:"start_id,omitempty"`
	OrderDesc *bool             `json:"order_desc,omitempty"`
	Limit     *int              `json:"limit,omitempty"`
}

type UsersListRequest struct {
	NameFilter string `json:"name_filter"`
	Limit      *int   `json:"limit,omitempty"`
	Offset     *int   `json:"offset,omitempty"`
}

type FirstCircleRequest struct {
	Full bool `json:"full"`
}

func newFrame(typ, id string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: typ, ID: id, Data: raw}, nil
}
