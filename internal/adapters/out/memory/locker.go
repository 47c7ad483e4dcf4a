package memory

import (
	"context"
	"sync"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/ports"
)

// DefaultLockWait bounds how long Lock waits for another writer.
const DefaultLockWait = 5 * time.Second

type keyLock struct {
	ch   chan struct{}
	refs int
}

// Locker is an in-process ports.PackageLocker. Entries exist only while some
// caller holds or waits for the key.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	wait  time.Duration
}

// NewLocker returns a locker; wait <= 0 selects DefaultLockWait.
func NewLocker(wait time.Duration) *Locker {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &Locker{locks: make(map[string]*keyLock), wait: wait}
}

func (l *Locker) Lock(ctx context.Context, id kernel.UUID) (func(), error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	key := id.String()
	kl := l.acquireRef(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case kl.ch <- struct{}{}:
	case <-timer.C:
		l.releaseRef(key)
		return nil, ports.ErrPackageLocked
	case <-ctx.Done():
		l.releaseRef(key)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.releaseRef(key)
		})
	}, nil
}

func (l *Locker) acquireRef(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *Locker) releaseRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl := l.locks[key]
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
