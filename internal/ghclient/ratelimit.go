package ghclient

import (
	"sync"
	"time"
)

// RateLimitState tracks the rate limit reported by the API for one client.
type RateLimitState struct {
	mu        sync.RWMutex
	limited   bool
	resetAt   time.Time
	remaining int
	limit     int
}

// IsLimited returns true if we are currently rate limited.
func (s *RateLimitState) IsLimited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.limited {
		return false
	}
	return time.Now().Before(s.resetAt)
}

// SetLimited sets the rate limit state.
func (s *RateLimitState) SetLimited(limited bool, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limited = limited
	s.resetAt = resetAt
}

// Update updates the rate limit state from response headers.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.limited = remaining == 0
}

// Status returns the last observed rate limit.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time, limited bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.limited && time.Now().Before(s.resetAt)
}
