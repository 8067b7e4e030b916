package memory

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// keyLocks exclusión mutua por clave. Equivale a un bloqueo de fila:
// quien llama a lock espera hasta que el dueño actual haga unlock o ctx se cancele.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  *semaphore.Weighted
	refs int // dueño + esperando
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

func (l *keyLocks) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: semaphore.NewWeighted(1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	if err := kl.sem.Acquire(ctx, 1); err != nil {
		l.release(key, kl)
		return err
	}
	return nil
}

func (l *keyLocks) unlock(key string) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	kl.sem.Release(1)
	l.release(key, kl)
}

func (l *keyLocks) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// size número de claves con dueño o con espera; usado en tests.
func (l *keyLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
