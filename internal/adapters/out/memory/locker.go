package memory

import (
	"context"
	"sync"

	"dispatch/internal/core/ports"
)

// Locker is a keyed mutex for a single process. Waiting honours ctx.
type Locker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

var _ ports.Locker = (*Locker)(nil)

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]chan struct{})}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
