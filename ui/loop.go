// Package ui owns the goroutine that applies view mutations. Workers never
// call the view directly; they post closures onto a Loop.
package ui

import (
	"context"
	"sync"
)

type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		events: make(chan func(), size),
		done:   make(chan struct{}),
	}
}

// Post queues fn for the loop. It reports false once the loop is closed.
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

// Run applies posted closures in order on the calling goroutine until ctx is
// done or Close is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case fn := <-l.events:
			fn()
		}
	}
}

// Flush waits until everything posted before the call has been applied.
func (l *Loop) Flush(ctx context.Context) error {
	applied := make(chan struct{})
	if !l.Post(func() { close(applied) }) {
		return context.Canceled
	}

	select {
	case <-applied:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	}
}

func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
