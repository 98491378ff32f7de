package gateway

import (
	"context"
	"time"
)

// CachedResponse é o que salvamos no Redis: a resposta de um POST de
// criação já processado, pronta para replay no reenvio da mesma chave.
type CachedResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string][]string // bom para headers customizados
}

type IdempotencyRepository interface {
	// Get retorna a resposta cacheada se existir. Cache miss devolve
	// (nil, nil); erro só quando o storage falha de verdade.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save armazena a resposta com um TTL (Time To Live)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
