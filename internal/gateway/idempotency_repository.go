package gateway

import (
	"context"
	"time"
)

// CachedResponse é o que guardamos no Redis para repetir a resposta de um
// POST /transactions reenviado com a mesma Idempotency-Key.
type CachedResponse struct {
	StatusCode int
	Body       []byte
}

type IdempotencyRepository interface {
	// Get retorna a resposta cacheada se existir (nil, nil em cache miss)
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save armazena a resposta com um TTL (Time To Live)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
