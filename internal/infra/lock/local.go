package lock

import (
	"context"
	"sync"
)

// LocalLocker serialises commits per resource inside one process. Each
// resource gets a one-slot channel so waiters can give up on ctx.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[uint]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[uint]chan struct{})}
}

func (l *LocalLocker) slot(resourceID uint) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[resourceID]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[resourceID] = s
	}
	return s
}

func (l *LocalLocker) Lock(ctx context.Context, resourceID uint) (func(), error) {
	s := l.slot(resourceID)

	select {
	case s <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-s })
	}, nil
}
