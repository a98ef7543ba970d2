package services

import (
	"chat-relay/domain"
	"sync"

	"github.com/samber/lo"
)

// firstCircle keeps, per user, the set of users last reported as sharing a chat with them.
// It is process-local: a restart reports everybody again on the next query.
type firstCircle struct {
	mu    sync.Mutex
	users map[domain.UserID]*circleSnapshot
}

type circleSnapshot struct {
	mu   sync.Mutex
	seen map[domain.UserID]struct{}
}

func newFirstCircle() *firstCircle {
	return &firstCircle{users: make(map[domain.UserID]*circleSnapshot)}
}

// lock returns the user's snapshot locked. The caller unlocks it once the delta is published,
// so concurrent queries for one user report and publish in order.
func (f *firstCircle) lock(userID domain.UserID) *circleSnapshot {
	f.mu.Lock()
	s, ok := f.users[userID]
	if !ok {
		s = &circleSnapshot{seen: make(map[domain.UserID]struct{})}
		f.users[userID] = s
	}
	f.mu.Unlock()

	s.mu.Lock()
	return s
}

func (s *circleSnapshot) unlock() { s.mu.Unlock() }

// diff returns the entrants of current against the snapshot, leaving the snapshot untouched.
// With full set, the previous snapshot is ignored and everybody is an entrant.
func (s *circleSnapshot) diff(current []domain.UserID, full bool) []domain.UserID {
	return lo.Filter(lo.Uniq(current), func(id domain.UserID, _ int) bool {
		_, known := s.seen[id]
		return full || !known
	})
}

// replace records current as the reported circle.
func (s *circleSnapshot) replace(current []domain.UserID) {
	s.seen = lo.Keyify(current)
}
