package runtime

import (
	"chat-relay/domain"
	"sync"
)

type channelSet map[domain.Channel]struct{}

// Registry maps channels to the mailboxes of their current subscribers.
// It keeps the reverse index per user so a closing session drops every subscription at once.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[domain.Channel]map[domain.UserID]*mailbox
	channels    map[domain.UserID]channelSet
}

func NewRegistry() *Registry {
	return &Registry{
		subscribers: make(map[domain.Channel]map[domain.UserID]*mailbox),
		channels:    make(map[domain.UserID]channelSet),
	}
}

// Subscribe adds the user's mailbox to every given channel. Subscribing twice is a no-op.
func (r *Registry) Subscribe(userID domain.UserID, mb *mailbox, channels ...domain.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined, ok := r.channels[userID]
	if !ok {
		joined = make(channelSet)
		r.channels[userID] = joined
	}
	for _, ch := range channels {
		members, ok := r.subscribers[ch]
		if !ok {
			members = make(map[domain.UserID]*mailbox)
			r.subscribers[ch] = members
		}
		members[userID] = mb
		joined[ch] = struct{}{}
	}
}

// Unsubscribe removes the user from all channels, provided the registered mailbox is still mb,
// and returns the channels it left. It ensures no empty sets are left in the channel map.
func (r *Registry) Unsubscribe(userID domain.UserID, mb *mailbox) []domain.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.channels[userID]
	var left []domain.Channel
	for ch := range joined {
		members, ok := r.subscribers[ch]
		if !ok || members[userID] != mb {
			continue
		}
		delete(members, userID)
		delete(joined, ch)
		left = append(left, ch)
		if len(members) == 0 {
			delete(r.subscribers, ch)
		}
	}
	if len(joined) == 0 {
		delete(r.channels, userID)
	}
	return left
}

// Subscribers returns a snapshot of the mailboxes listening on a channel.
// Returns nil if nobody listens.
func (r *Registry) Subscribers(ch domain.Channel) []*mailbox {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.subscribers[ch]
	if !ok {
		return nil
	}
	out := make([]*mailbox, 0, len(members))
	for _, mb := range members {
		out = append(out, mb)
	}
	return out
}
