package domain

import "github.com/google/uuid"

// Channel is a routing key grouping subscribers of a topic.
// No channel object outlives its subscription set.
type Channel string

type ChannelKind string

const (
	ChannelKindChat ChannelKind = "chat"
	ChannelKindUser ChannelKind = "user"
)

// ChannelCode derives the channel of a chat or of a user's own notification stream.
// The same (kind, id) pair always yields the same channel.
func ChannelCode(kind ChannelKind, id uuid.UUID) Channel {
	return Channel(string(kind) + ":" + id.String())
}

func ChatChannel(chatID ChatID) Channel {
	return ChannelCode(ChannelKindChat, chatID)
}

func UserChannel(userID UserID) Channel {
	return ChannelCode(ChannelKindUser, userID)
}
