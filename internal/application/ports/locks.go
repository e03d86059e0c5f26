package ports

import "context"

// OrderLocker serializa el ruteo de un mismo pedido entre réplicas.
// Lock devuelve la función que libera el candado.
type OrderLocker interface {
	Lock(ctx context.Context, orderID string) (unlock func(), err error)
}
