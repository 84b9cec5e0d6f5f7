package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySession is an in-memory Session for the CLI and for tests. It
// holds at most one signed-in user.
type MemorySession struct {
	mu   sync.Mutex
	user *User
}

// NewMemorySession creates a session with the given user signed in. Pass
// nil for an unauthenticated session.
func NewMemorySession(user *User) *MemorySession {
	return &MemorySession{user: user}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *MemorySession) CurrentUser(_ context.Context) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	copied := *s.user
	return &copied, nil
}

// SetTokenBalance writes the balance of the signed-in user.
func (s *MemorySession) SetTokenBalance(_ context.Context, id uuid.UUID, balance int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.ID == id {
		s.user.TokenBalance = balance
	}
	return nil
}
