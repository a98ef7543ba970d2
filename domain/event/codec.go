package event

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire form of an event: a discriminator plus its payload.
type Envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func Marshal(e Event) ([]byte, error) {
	env, err := ToEnvelope(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func ToEnvelope(e Event) (Envelope, error) {
	if e == nil {
		return Envelope{}, fmt.Errorf("nil event")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: e.Kind(), Data: data}, nil
}

func Unmarshal(b []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	return FromEnvelope(env)
}

func FromEnvelope(env Envelope) (Event, error) {
	switch env.Kind {
	case KindChatMessage:
		return decode[ChatMessageEvent](env.Data)
	case KindChatMessageEdited:
		return decode[ChatMessageEdited](env.Data)
	case KindUserAddedToChat:
		return decode[UserAddedToChatNotification](env.Data)
	case KindChatListUpdate:
		return decode[ChatListUpdate](env.Data)
	case KindFirstCircleUserListUpdate:
		return decode[FirstCircleUserListUpdate](env.Data)
	default:
		return nil, fmt.Errorf("unknown event kind %q", env.Kind)
	}
}

func decode[T Event](data json.RawMessage) (Event, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
