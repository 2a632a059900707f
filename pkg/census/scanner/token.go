package scanner

import (
	"sync"
	"sync/atomic"
)

// Token is a cooperative cancellation flag shared by the producer and the
// workers of one scan. Cancel may be called any number of times from any
// goroutine; the first call wins.
type Token struct {
	tripped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// NewToken returns an untripped token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel trips the token.
func (t *Token) Cancel() {
	t.once.Do(func() {
		t.tripped.Store(true)
		close(t.done)
	})
}

// Cancelled reports whether the token has been tripped.
func (t *Token) Cancelled() bool {
	return t.tripped.Load()
}

// Done returns a channel closed when the token is tripped.
func (t *Token) Done() <-chan struct{} {
	return t.done
}
