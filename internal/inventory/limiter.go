package inventory

import "sync"

// Limiter caps the number of repositories processed across all concurrently
// running organization tasks.
type Limiter struct {
	mu    sync.Mutex
	limit int
	count int
}

// NewLimiter returns a Limiter admitting limit repositories; limit <= 0 admits all.
func NewLimiter(limit int) *Limiter {
	return &Limiter{limit: limit}
}

// Acquire reserves a slot, reporting false once the limit has been reached.
func (l *Limiter) Acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit > 0 && l.count >= l.limit {
		return false
	}
	l.count++
	return true
}
