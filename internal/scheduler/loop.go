package scheduler

import (
	"context"
	"sync"
)

// Loop runs posted closures one at a time on a single goroutine. Everything
// that touches quiz or study state goes through it.
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

// NewLoop creates a loop with room for size pending events
func NewLoop(size int) *Loop {
	return &Loop{
		events: make(chan func(), size),
		done:   make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and reports false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes events until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn()
		}
	}
}
