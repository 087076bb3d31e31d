// pkg/liveness/token.go
package liveness

import "sync"

// Token reports whether its owner is still around. Holders check it instead of
// keeping a raw back-reference to the owner.
type Token struct {
	once sync.Once
	done chan struct{}
}

func New() *Token { return &Token{done: make(chan struct{})} }

// Alive is false once Invalidate has been called. A nil token is never alive.
func (t *Token) Alive() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Done is closed when the owner goes away.
func (t *Token) Done() <-chan struct{} { return t.done }

// Invalidate marks the owner gone. Safe to call more than once.
func (t *Token) Invalidate() {
	t.once.Do(func() { close(t.done) })
}
