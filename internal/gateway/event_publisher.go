package gateway

import "context"

// TaskPublisher enfileira trabalho assíncrono (push, email) na fila
// durável. A request HTTP nunca espera o resultado da entrega.
type TaskPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}
