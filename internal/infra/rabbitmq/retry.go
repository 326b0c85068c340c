package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/DinoRu/chapmoney/internal/tasks"
)

// Attempt lê do header quantas vezes a mensagem já foi tentada.
// Primeira entrega (sem header) conta como tentativa 1.
func Attempt(headers amqp.Table) int {
	if headers == nil {
		return 1
	}
	switch v := headers[tasks.RetryHeader].(type) {
	case int32:
		return int(v) + 1
	case int64:
		return int(v) + 1
	case int:
		return v + 1
	}
	return 1
}

// ShouldRetry decide entre republicar (orçamento restante) ou dead-letter.
func ShouldRetry(headers amqp.Table) bool {
	return Attempt(headers) < tasks.MaxAttempts
}

// NextHeaders monta os headers da republicação com a contagem incrementada.
func NextHeaders(headers amqp.Table) amqp.Table {
	next := amqp.Table{}
	for k, v := range headers {
		next[k] = v
	}
	next[tasks.RetryHeader] = int32(Attempt(headers))
	return next
}
