// Package redislock serializa el ruteo de un mismo pedido.
// Con REDIS_ADDR el candado es compartido entre réplicas; sin él se usa un candado en proceso.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

var (
	_ ports.OrderLocker = (*Locker)(nil)
	_ ports.OrderLocker = (*LocalLocker)(nil)
)

const keyPrefix = "refurb:routing:lock:"

// releaseScript borra la clave solo si sigue siendo del mismo dueño.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redislock: ping: %w", err)
	}
	return client, nil
}

// Locker candado por pedido sobre SET NX PX. El TTL acota cuánto se retiene si la réplica muere.
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
}

// New construye el candado. ttl también es la espera máxima para adquirirlo.
func New(client redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Locker{client: client, ttl: ttl, retry: 25 * time.Millisecond}
}

// Lock espera hasta adquirir el candado del pedido, agotar ttl o cancelar ctx.
func (l *Locker) Lock(ctx context.Context, orderID string) (func(), error) {
	key := keyPrefix + orderID
	token := uuid.New().String()
	deadline := time.Now().Add(l.ttl)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &domain.UpstreamError{Collaborator: "redis", Err: err}
		}
		if ok {
			return func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("pedido %s en proceso por otra solicitud: %w", orderID, domain.ErrConflict)
		}
		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
