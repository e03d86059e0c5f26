package redislock

import (
	"context"
	"sync"
)

// LocalLocker candado por pedido dentro del proceso (sin Redis, una sola réplica).
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*localKey
}

type localKey struct {
	ch   chan struct{}
	refs int
}

// NewLocal construye el candado en proceso.
func NewLocal() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*localKey)}
}

// Lock bloquea hasta obtener el candado del pedido o cancelar ctx.
func (l *LocalLocker) Lock(ctx context.Context, orderID string) (func(), error) {
	l.mu.Lock()
	k := l.keys[orderID]
	if k == nil {
		k = &localKey{ch: make(chan struct{}, 1)}
		l.keys[orderID] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-k.ch
				l.release(orderID, k)
			})
		}, nil
	case <-ctx.Done():
		l.release(orderID, k)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) release(orderID string, k *localKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, orderID)
	}
}
